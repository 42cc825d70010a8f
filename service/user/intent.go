package user

import (
	"context"
	"math"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/utils"
	"github.com/sirupsen/logrus"
)

// IntentClassifier 对单条用户消息做意图分类, 任何失败都返回兜底结果
type IntentClassifier interface {
	Classify(ctx context.Context, message string) *common.IntentResult
}

type intentClassifier struct {
	llm     llm.Service
	timeout time.Duration
	log     *logrus.Logger
	metrics *metrics.AdvisorMetrics
}

func NewIntentClassifier(llmService llm.Service, timeout time.Duration, log *logrus.Logger, m *metrics.AdvisorMetrics) IntentClassifier {
	return &intentClassifier{llm: llmService, timeout: timeout, log: log, metrics: m}
}

// 超过该数量视为模型输出异常, 忽略数量条件
const maxQuantity = 100

// intentWire 模型输出的原始结构, 数值统一按float64解析
type intentWire struct {
	Intent string `json:"intent"`
	Query  *struct {
		Keyword           *string  `json:"keyword"`
		Category          *string  `json:"category"`
		ProductsToCompare []string `json:"products_to_compare"`
		Quantity          *float64 `json:"quantity"`
		PriceMax          *float64 `json:"price_max"`
		PriceMin          *float64 `json:"price_min"`
		SortBy            *string  `json:"sort_by"`
		DeviceModel       *string  `json:"device_model"`
	} `json:"query"`
}

func (s *intentClassifier) Classify(ctx context.Context, message string) *common.IntentResult {
	if s.llm == nil {
		s.fallback("LLM服务未初始化")
		return common.DefaultIntentResult()
	}

	callCtx, cancel := withCallTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Complete(callCtx, &llm.CompletionRequest{
		Size:         enum.ModelSmall,
		SystemPrompt: enum.SystemPromptIntent,
		Content:      message,
		Temperature:  llm.Temperature(0),
		Format:       enum.ResponseFormatJsonObject,
	})
	if err != nil {
		s.fallback("意图分类调用失败: %v", err)
		return common.DefaultIntentResult()
	}

	var wire intentWire
	if err := utils.DecodeWithSchema(raw, intentSchema, &wire); err != nil {
		s.fallback("意图分类结果无效: %v; 原文: %s", err, utils.Truncate(raw, 200))
		return common.DefaultIntentResult()
	}

	result := &common.IntentResult{Intent: enum.Intent(wire.Intent)}
	if !result.Intent.Valid() {
		s.fallback("未知意图: %s", wire.Intent)
		return common.DefaultIntentResult()
	}

	if q := wire.Query; q != nil {
		if q.Keyword != nil {
			result.Query.Keyword = strings.TrimSpace(*q.Keyword)
		}
		result.Query.Category = trimmedPtr(q.Category)
		result.Query.DeviceModel = trimmedPtr(q.DeviceModel)
		for _, name := range q.ProductsToCompare {
			if name = strings.TrimSpace(name); name != "" {
				result.Query.ProductsToCompare = append(result.Query.ProductsToCompare, name)
			}
		}
		if q.Quantity != nil && *q.Quantity >= 1 && *q.Quantity <= maxQuantity {
			n := int(math.Round(*q.Quantity))
			result.Query.Quantity = &n
		}
		result.Query.PriceMax = vndFromFloat(q.PriceMax)
		result.Query.PriceMin = vndFromFloat(q.PriceMin)
		if result.Query.PriceMax > 0 && result.Query.PriceMin > result.Query.PriceMax {
			result.Query.PriceMin, result.Query.PriceMax = result.Query.PriceMax, result.Query.PriceMin
		}
		if q.SortBy != nil {
			sortBy := enum.SortBy(*q.SortBy)
			result.Query.SortBy = &sortBy
		}
	}
	return result
}

func (s *intentClassifier) fallback(format string, args ...interface{}) {
	s.metrics.ObserveFallback("intent")
	if s.log != nil {
		s.log.Warnf("[intent] "+format, args...)
	}
}

// withCallTimeout 为单次模型调用设置超时, timeout<=0 时不限制
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func vndFromFloat(f *float64) int64 {
	if f == nil || *f <= 0 || *f > math.MaxInt64 {
		return 0
	}
	return int64(math.Round(*f))
}
