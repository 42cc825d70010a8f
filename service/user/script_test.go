package user

import (
	"strings"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

func TestNextStep(t *testing.T) {
	engine := NewScriptEngine()

	allFilled := &common.SlotRecord{
		Category: common.Filled("Laptop"),
		Purpose:  common.Filled("Lập trình"),
		Budget:   common.Filled(int64(20000000)),
		Priority: common.Filled("hiệu năng"),
		Phone:    common.Filled("0912345678"),
	}

	tests := []struct {
		name    string
		current int
		slots   *common.SlotRecord
		want    int
	}{
		{"empty starts at category", -1, &common.SlotRecord{}, 0},
		{"nil slots", -1, nil, 0},
		{
			"skips filled category and purpose",
			0,
			&common.SlotRecord{Category: common.Filled("Laptop"), Purpose: common.Filled("Lập trình")},
			2,
		},
		{"all filled is terminal", -1, allFilled, 5},
		{
			"pending is still open",
			-1,
			&common.SlotRecord{Category: common.Pending[string](), Purpose: common.Filled("gaming")},
			0,
		},
		{
			"scans forward only",
			2,
			&common.SlotRecord{Category: common.Pending[string]()},
			3,
		},
		{"past the end", 7, &common.SlotRecord{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.NextStep(tt.current, tt.slots)
			if got != tt.want {
				t.Errorf("NextStep(%d) = %d, want %d", tt.current, got, tt.want)
			}
			// 纯函数, 重复调用结果一致
			if again := engine.NextStep(tt.current, tt.slots); again != got {
				t.Errorf("NextStep not idempotent: %d then %d", got, again)
			}
		})
	}
}

func TestQuestionFor(t *testing.T) {
	engine := NewScriptEngine()

	if _, ok := engine.QuestionFor(engine.Len(), &common.SlotRecord{}); ok {
		t.Error("QuestionFor(len) should report nothing left to ask")
	}
	if _, ok := engine.QuestionFor(-1, nil); ok {
		t.Error("QuestionFor(-1) should be out of range")
	}

	q, ok := engine.QuestionFor(1, &common.SlotRecord{Category: common.Filled("laptop")})
	if !ok || !strings.Contains(q, "laptop") || strings.Contains(q, "{category}") {
		t.Errorf("purpose question not rendered with category: %q", q)
	}
	q, _ = engine.QuestionFor(1, nil)
	if strings.Contains(q, "{category}") {
		t.Errorf("placeholder left in question: %q", q)
	}

	static, ok := engine.QuestionFor(0, nil)
	if !ok || static != DefaultScript()[0].Question {
		t.Errorf("static question = %q", static)
	}
}

func TestScriptOrder(t *testing.T) {
	want := []enum.SlotKey{enum.SlotCategory, enum.SlotPurpose, enum.SlotBudget, enum.SlotPriority, enum.SlotPhone}
	steps := NewScriptEngine().Steps()
	if len(steps) != len(want) {
		t.Fatalf("script has %d steps, want %d", len(steps), len(want))
	}
	for i, s := range steps {
		if s.Key != want[i] || s.Step != i+1 {
			t.Errorf("step %d = {%d %s}, want {%d %s}", i, s.Step, s.Key, i+1, want[i])
		}
	}
}

func TestCustomScript(t *testing.T) {
	engine := NewScriptEngine(ScriptStep{Step: 1, Key: enum.SlotPhone, Question: "sđt?"})
	if engine.Len() != 1 {
		t.Fatalf("Len = %d", engine.Len())
	}
	if key, ok := engine.KeyAt(0); !ok || key != enum.SlotPhone {
		t.Errorf("KeyAt(0) = %s, %v", key, ok)
	}
	if _, ok := engine.KeyAt(1); ok {
		t.Error("KeyAt(1) should be out of range")
	}
}
