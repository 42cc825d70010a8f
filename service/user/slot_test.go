package user

import (
	"context"
	"errors"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

func extractWith(reply string, err error) *common.SlotRecord {
	stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptSlot: reply}, err: err}
	return NewSlotExtractor(stub, 0, testLogger(), nil).Extract(context.Background(), "tin nhắn")
}

func TestExtractBudgetOnly(t *testing.T) {
	partial := extractWith(`{"category": null, "budget": 20000000, "brand": null, "purpose": null, "priority": null, "phone": null}`, nil)

	record := &common.SlotRecord{}
	record.Merge(partial)

	if !record.Budget.IsFilled() || record.Budget.Value != 20000000 {
		t.Errorf("Budget = %+v, want 20000000", record.Budget)
	}
	for _, key := range enum.SlotKeys {
		if key == enum.SlotBudget {
			continue
		}
		if record.State(key) != common.SlotUnset {
			t.Errorf("%s state = %d, want unset", key, record.State(key))
		}
	}
}

func TestExtractFailureIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"backend error", "", errors.New("timeout")},
		{"not json", "not json", nil},
		{"wrong type", `{"category": 5}`, nil},
		{"array", `["Laptop"]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractWith(tt.reply, tt.err); !got.Empty() {
				t.Errorf("Extract = %+v, want empty record", got)
			}
		})
	}
}

func TestExtractNormalization(t *testing.T) {
	got := extractWith(`{
		"category": "Laptop",
		"budget": "khoảng 25 triệu",
		"brand": "asus",
		"purpose": "N/A",
		"priority": "  ",
		"phone": "0912 345 678"
	}`, nil)

	if got.Category.Value != "Laptop" {
		t.Errorf("Category = %+v", got.Category)
	}
	if got.Budget.Value != 25000000 {
		t.Errorf("Budget = %+v", got.Budget)
	}
	if got.Brand.Value != "ASUS" {
		t.Errorf("Brand = %+v", got.Brand)
	}
	// 占位值与空白都不算填写
	if got.Purpose.State != common.SlotUnset || got.Priority.State != common.SlotUnset {
		t.Errorf("Purpose/Priority should be unset: %+v %+v", got.Purpose, got.Priority)
	}
	if got.Phone.Value != "0912345678" {
		t.Errorf("Phone = %+v", got.Phone)
	}
}

func TestBudgetSlot(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
		ok    bool
	}{
		{"number", float64(15000000), 15000000, true},
		{"too small", float64(20), 0, false},
		{"string", "1,5tr", 1500000, true},
		{"range is ambiguous", "15-20 triệu", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budgetSlot(tt.input)
			if got.IsFilled() != tt.ok || got.Value != tt.want {
				t.Errorf("budgetSlot(%v) = %+v", tt.input, got)
			}
		})
	}
}

func TestPhoneSlot(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"0912345678", "0912345678"},
		{"+84 912 345 678", "+84912345678"},
		{"091.234.5678", "0912345678"},
		{float64(912345678), "0912345678"},
		{float64(84912345678), "84912345678"},
		{"12345", ""},
		{"không có", ""},
		{nil, ""},
	}
	for _, tt := range tests {
		got := phoneSlot(tt.input)
		if got.Value != tt.want || got.IsFilled() != (tt.want != "") {
			t.Errorf("phoneSlot(%v) = %+v, want %q", tt.input, got, tt.want)
		}
	}
}
