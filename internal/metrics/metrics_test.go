package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestAdvisorMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdvisorMetrics(reg)

	m.ObserveIntent("CONSULTING")
	m.ObserveIntent("CONSULTING")
	m.ObserveFallback("intent")
	m.ObserveConsultCompleted(true)
	m.ObserveLlmLatency("qwen", "ok", 0.3)

	if got := counterValue(t, reg, "mall_advisor_chat_intent_total"); got != 2 {
		t.Errorf("intent_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "mall_advisor_chat_fallback_total"); got != 1 {
		t.Errorf("fallback_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "mall_advisor_consult_completed_total"); got != 1 {
		t.Errorf("completed_total = %v, want 1", got)
	}
}

func TestAdvisorMetricsNilSafe(t *testing.T) {
	var m *AdvisorMetrics
	m.ObserveIntent("OTHER")
	m.ObserveFallback("slot")
	m.ObserveConsultCompleted(false)
	m.ObserveLlmLatency("qwen", "error", 0.1)
}
