package dto

import (
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

// ChatReply 是聊天接口的响应体
type ChatReply struct {
	SessionID string           `json:"session_id"`
	Intent    enum.Intent      `json:"intent"`
	Reply     string           `json:"reply"`
	Products  []ProductCard    `json:"products,omitempty"`
	Consult   *ConsultProgress `json:"consult,omitempty"`
}

// ProductCard 返回给前端展示的商品卡片
type ProductCard struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Price    int64  `json:"price"`
	InStock  bool   `json:"in_stock"`
}

// ConsultProgress 咨询流程进度, 仅在咨询分支返回
type ConsultProgress struct {
	Step  int               `json:"step"`
	Total int               `json:"total"`
	Done  bool              `json:"done"`
	Slots common.SlotRecord `json:"slots"`
}

// ScriptStep 咨询脚本中单个步骤的公开信息
type ScriptStep struct {
	Step     int          `json:"step"`
	Key      enum.SlotKey `json:"key"`
	Question string       `json:"question"`
}
