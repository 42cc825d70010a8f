package metrics

import "github.com/prometheus/client_golang/prometheus"

// AdvisorMetrics 导购对话相关的计数器与直方图, nil 接收者上调用为空操作
type AdvisorMetrics struct {
	intentTotal      *prometheus.CounterVec
	fallbackTotal    *prometheus.CounterVec
	consultCompleted *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
}

func NewAdvisorMetrics(reg prometheus.Registerer) *AdvisorMetrics {
	m := &AdvisorMetrics{
		intentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mall_advisor",
			Subsystem: "chat",
			Name:      "intent_total",
			Help:      "Classified intents of inbound messages",
		}, []string{"intent"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mall_advisor",
			Subsystem: "chat",
			Name:      "fallback_total",
			Help:      "LLM outputs replaced by the default result",
		}, []string{"stage"}),
		consultCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mall_advisor",
			Subsystem: "consult",
			Name:      "completed_total",
			Help:      "Consultations that reached the recommendation step",
		}, []string{"lead"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mall_advisor",
			Subsystem: "llm",
			Name:      "request_latency_seconds",
			Help:      "Latency of chat completion calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intentTotal, m.fallbackTotal, m.consultCompleted, m.llmLatency)
	return m
}

func (m *AdvisorMetrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intentTotal.WithLabelValues(intent).Inc()
}

// ObserveFallback stage: intent / slot
func (m *AdvisorMetrics) ObserveFallback(stage string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(stage).Inc()
}

func (m *AdvisorMetrics) ObserveConsultCompleted(withLead bool) {
	if m == nil {
		return
	}
	label := "false"
	if withLead {
		label = "true"
	}
	m.consultCompleted.WithLabelValues(label).Inc()
}

func (m *AdvisorMetrics) ObserveLlmLatency(model, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(model, status).Observe(seconds)
}
