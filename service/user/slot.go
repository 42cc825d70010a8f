package user

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/utils"
	"github.com/sirupsen/logrus"
)

// SlotExtractor 从单条消息中提取咨询字段, 失败时返回空记录
type SlotExtractor interface {
	Extract(ctx context.Context, message string) *common.SlotRecord
}

type slotExtractor struct {
	llm     llm.Service
	timeout time.Duration
	log     *logrus.Logger
	metrics *metrics.AdvisorMetrics
}

func NewSlotExtractor(llmService llm.Service, timeout time.Duration, log *logrus.Logger, m *metrics.AdvisorMetrics) SlotExtractor {
	return &slotExtractor{llm: llmService, timeout: timeout, log: log, metrics: m}
}

type slotWire struct {
	Category *string `json:"category"`
	Budget   any     `json:"budget"`
	Brand    *string `json:"brand"`
	Purpose  *string `json:"purpose"`
	Priority *string `json:"priority"`
	Phone    any     `json:"phone"`
}

var (
	phoneRE     = regexp.MustCompile(`^(?:\+?84|0)\d{8,10}$`)
	phoneStrip  = strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "")
	knownBrands = map[string]string{
		"apple": "Apple", "macbook": "Apple", "dell": "Dell", "asus": "ASUS", "hp": "HP",
		"lenovo": "Lenovo", "acer": "Acer", "msi": "MSI", "gigabyte": "Gigabyte", "lg": "LG",
		"samsung": "Samsung", "logitech": "Logitech", "razer": "Razer", "corsair": "Corsair",
		"intel": "Intel", "amd": "AMD", "nvidia": "NVIDIA", "kingston": "Kingston", "xiaomi": "Xiaomi",
	}
)

func (s *slotExtractor) Extract(ctx context.Context, message string) *common.SlotRecord {
	if s.llm == nil {
		s.fallback("LLM服务未初始化")
		return &common.SlotRecord{}
	}

	callCtx, cancel := withCallTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Complete(callCtx, &llm.CompletionRequest{
		Size:         enum.ModelSmall,
		SystemPrompt: enum.SystemPromptSlot,
		Content:      message,
		Temperature:  llm.Temperature(0),
		Format:       enum.ResponseFormatJsonObject,
	})
	if err != nil {
		s.fallback("字段提取调用失败: %v", err)
		return &common.SlotRecord{}
	}

	var wire slotWire
	if err := utils.DecodeWithSchema(raw, slotSchema, &wire); err != nil {
		s.fallback("字段提取结果无效: %v; 原文: %s", err, utils.Truncate(raw, 200))
		return &common.SlotRecord{}
	}

	record := &common.SlotRecord{
		Category: textSlot(wire.Category),
		Purpose:  textSlot(wire.Purpose),
		Priority: textSlot(wire.Priority),
		Brand:    brandSlot(wire.Brand),
		Budget:   budgetSlot(wire.Budget),
		Phone:    phoneSlot(wire.Phone),
	}
	return record
}

func (s *slotExtractor) fallback(format string, args ...interface{}) {
	s.metrics.ObserveFallback("slot")
	if s.log != nil {
		s.log.Warnf("[slot] "+format, args...)
	}
}

// textSlot 空串与占位值都视为未提及
func textSlot(v *string) common.SlotValue[string] {
	if v == nil {
		return common.SlotValue[string]{}
	}
	str := strings.TrimSpace(*v)
	if str == "" || strings.EqualFold(str, enum.SlotPendingSentinel) || strings.EqualFold(str, "null") {
		return common.SlotValue[string]{}
	}
	return common.Filled(str)
}

func brandSlot(v *string) common.SlotValue[string] {
	slot := textSlot(v)
	if !slot.IsFilled() {
		return slot
	}
	if canonical, ok := knownBrands[strings.ToLower(slot.Value)]; ok {
		slot.Value = canonical
	}
	return slot
}

// budgetSlot 数字直接取整, 字符串按越南语金额解析; 含糊的金额视为未提及
func budgetSlot(v any) common.SlotValue[int64] {
	switch b := v.(type) {
	case float64:
		// 过小的数字无法判断单位
		if b < 1000 || b > math.MaxInt64 {
			return common.SlotValue[int64]{}
		}
		return common.Filled(int64(math.Round(b)))
	case string:
		if amount, ok := utils.ParseVndAmount(b); ok {
			return common.Filled(amount)
		}
	}
	return common.SlotValue[int64]{}
}

// phoneSlot 数字形式的号码会丢失开头的0, 需要补回
func phoneSlot(v any) common.SlotValue[string] {
	var phone string
	switch p := v.(type) {
	case string:
		phone = phoneStrip.Replace(strings.TrimSpace(p))
	case float64:
		phone = strconv.FormatFloat(p, 'f', 0, 64)
		if !strings.HasPrefix(phone, "84") {
			phone = "0" + phone
		}
	default:
		return common.SlotValue[string]{}
	}
	if !phoneRE.MatchString(phone) {
		return common.SlotValue[string]{}
	}
	return common.Filled(phone)
}
