package enum

import (
	"strings"
	"testing"
)

// TestIntentPromptConsistency 确保路由提示词中使用的意图和排序标签与代码中定义的常量保持严格一致。
// 防止修改常量而忘记更新提示词。
func TestIntentPromptConsistency(t *testing.T) {
	prompt := string(SystemPromptIntent)

	for _, intent := range Intents {
		expectedSubstring := `"` + string(intent) + `"`
		if !strings.Contains(prompt, expectedSubstring) {
			t.Errorf("SystemPromptIntent应包含意图常量: %s", expectedSubstring)
		}
	}

	for _, sortBy := range SortBys {
		expectedSubstring := `"` + string(sortBy) + `"`
		if !strings.Contains(prompt, expectedSubstring) {
			t.Errorf("SystemPromptIntent应包含排序常量: %s", expectedSubstring)
		}
	}

	for _, field := range []string{"keyword", "category", "products_to_compare", "quantity", "price_max", "price_min", "sort_by", "device_model"} {
		if !strings.Contains(prompt, `"`+field+`"`) {
			t.Errorf("SystemPromptIntent应包含字段: %s", field)
		}
	}
}

func TestSlotPromptConsistency(t *testing.T) {
	prompt := string(SystemPromptSlot)

	for _, key := range SlotKeys {
		expectedSubstring := `"` + string(key) + `": null`
		if !strings.Contains(prompt, expectedSubstring) {
			t.Errorf("SystemPromptSlot的输出示例应包含字段: %s", expectedSubstring)
		}
	}
}

func TestAdvisorPromptConstraints(t *testing.T) {
	prompt := string(SystemPromptAdvisor)

	// 顾问只能推荐上下文中的商品, 比较需中立, 需主动披露缺点
	for _, must := range []string{"CƠ SỞ DỮ LIỆU SẢN PHẨM", "Không bịa sản phẩm", "phù hợp cho nhu cầu", "nhược điểm", `"drawbacks"`} {
		if !strings.Contains(prompt, must) {
			t.Errorf("SystemPromptAdvisor缺少约束: %s", must)
		}
	}
}

func TestIntentValid(t *testing.T) {
	tests := []struct {
		in   Intent
		want bool
	}{
		{IntentGreeting, true},
		{IntentOther, true},
		{"greeting", false},
		{"BUY_NOW", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.want {
			t.Errorf("Intent(%q).Valid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
