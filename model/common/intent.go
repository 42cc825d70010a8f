package common

import "gitee.com/taoJie_1/mall-advisor/model/enum"

// IntentResult 意图分类结果, 每条消息重新生成
type IntentResult struct {
	Intent enum.Intent `json:"intent"`
	Query  IntentQuery `json:"query"`
}

// IntentQuery 从消息中提取的商品查询条件, 金额单位为VND
type IntentQuery struct {
	Keyword           string       `json:"keyword,omitempty"`
	Category          *string      `json:"category,omitempty"`
	ProductsToCompare []string     `json:"products_to_compare,omitempty"`
	Quantity          *int         `json:"quantity,omitempty"`
	PriceMax          int64        `json:"price_max,omitempty"`
	PriceMin          int64        `json:"price_min,omitempty"`
	SortBy            *enum.SortBy `json:"sort_by,omitempty"`
	DeviceModel       *string      `json:"device_model,omitempty"`
}

// DefaultIntentResult 分类失败时的兜底结果
func DefaultIntentResult() *IntentResult {
	return &IntentResult{Intent: enum.IntentOther}
}
