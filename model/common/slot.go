package common

import (
	"bytes"
	"encoding/json"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

// SlotState 咨询字段的三种状态
type SlotState uint8

const (
	// SlotUnset 用户从未提及
	SlotUnset SlotState = iota
	// SlotPending 已经提问但用户的回答中没有该字段, 由编排层写入
	SlotPending
	// SlotFilled 已有确定的值
	SlotFilled
)

// SlotValue 单个咨询字段。
// JSON格式: null <-> Unset, "N/A" <-> Pending, 其余 <-> Filled
type SlotValue[T comparable] struct {
	State SlotState
	Value T
}

func Filled[T comparable](v T) SlotValue[T] {
	return SlotValue[T]{State: SlotFilled, Value: v}
}

func Pending[T comparable]() SlotValue[T] {
	return SlotValue[T]{State: SlotPending}
}

func (v SlotValue[T]) IsFilled() bool {
	return v.State == SlotFilled
}

func (v SlotValue[T]) MarshalJSON() ([]byte, error) {
	switch v.State {
	case SlotFilled:
		return json.Marshal(v.Value)
	case SlotPending:
		return json.Marshal(enum.SlotPendingSentinel)
	default:
		return []byte("null"), nil
	}
}

func (v *SlotValue[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = SlotValue[T]{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == enum.SlotPendingSentinel {
		*v = Pending[T]()
		return nil
	}

	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	// 空字符串等同于未提及
	if str, ok := any(val).(string); ok && strings.TrimSpace(str) == "" {
		*v = SlotValue[T]{}
		return nil
	}
	*v = Filled(val)
	return nil
}

// SlotRecord 咨询流程收集到的全部字段
type SlotRecord struct {
	Category SlotValue[string] `json:"category"`
	Purpose  SlotValue[string] `json:"purpose"`
	Budget   SlotValue[int64]  `json:"budget"`
	Brand    SlotValue[string] `json:"brand"`
	Priority SlotValue[string] `json:"priority"`
	Phone    SlotValue[string] `json:"phone"`
}

// State 按字段名获取状态, 未知字段视为未填
func (r *SlotRecord) State(key enum.SlotKey) SlotState {
	switch key {
	case enum.SlotCategory:
		return r.Category.State
	case enum.SlotPurpose:
		return r.Purpose.State
	case enum.SlotBudget:
		return r.Budget.State
	case enum.SlotBrand:
		return r.Brand.State
	case enum.SlotPriority:
		return r.Priority.State
	case enum.SlotPhone:
		return r.Phone.State
	}
	return SlotUnset
}

func (r *SlotRecord) IsFilled(key enum.SlotKey) bool {
	return r.State(key) == SlotFilled
}

// MarkPending 将未填写的字段标记为已提问未回答, 已有值的字段保持不变
func (r *SlotRecord) MarkPending(key enum.SlotKey) {
	if r.IsFilled(key) {
		return
	}
	switch key {
	case enum.SlotCategory:
		r.Category = Pending[string]()
	case enum.SlotPurpose:
		r.Purpose = Pending[string]()
	case enum.SlotBudget:
		r.Budget = Pending[int64]()
	case enum.SlotBrand:
		r.Brand = Pending[string]()
	case enum.SlotPriority:
		r.Priority = Pending[string]()
	case enum.SlotPhone:
		r.Phone = Pending[string]()
	}
}

// Merge 用本轮提取结果覆盖已有字段: 只有 partial 中已填写的字段会覆盖, 其余保持原值
func (r *SlotRecord) Merge(partial *SlotRecord) {
	if partial == nil {
		return
	}
	mergeSlot(&r.Category, partial.Category)
	mergeSlot(&r.Purpose, partial.Purpose)
	mergeSlot(&r.Budget, partial.Budget)
	mergeSlot(&r.Brand, partial.Brand)
	mergeSlot(&r.Priority, partial.Priority)
	mergeSlot(&r.Phone, partial.Phone)
}

func mergeSlot[T comparable](dst *SlotValue[T], src SlotValue[T]) {
	if src.IsFilled() {
		*dst = src
	}
}

// Empty 是否没有任何已填写的字段
func (r *SlotRecord) Empty() bool {
	for _, key := range enum.SlotKeys {
		if r.IsFilled(key) {
			return false
		}
	}
	return true
}
