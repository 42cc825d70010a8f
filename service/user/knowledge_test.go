package user

import (
	"math"
	"strings"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/model/db"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

func TestFormatVnd(t *testing.T) {
	tests := map[int64]string{
		0:             "0",
		999:           "999",
		1000:          "1.000",
		20000000:      "20.000.000",
		1500000:       "1.500.000",
		-2500000:      "-2.500.000",
		123456789:     "123.456.789",
		math.MaxInt64: "9.223.372.036.854.775.807",
		math.MinInt64: "-9.223.372.036.854.775.808",
	}
	for in, want := range tests {
		if got := formatVnd(in); got != want {
			t.Errorf("formatVnd(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAdvisoryInstruction(t *testing.T) {
	base := NewKnowledgeProvider("").AdvisoryInstruction()
	if base != enum.SystemPromptAdvisor {
		t.Error("empty policy should keep the base instruction")
	}

	extended := NewKnowledgeProvider("Đổi trả trong 7 ngày").AdvisoryInstruction()
	if !strings.HasPrefix(string(extended), string(enum.SystemPromptAdvisor)) || !strings.HasSuffix(string(extended), "- Đổi trả trong 7 ngày") {
		t.Errorf("policy not appended: %q", extended)
	}
}

func TestBuildAdvisorContent(t *testing.T) {
	content := buildAdvisorContent("nên mua cái nào?", []db.Product{
		{BaseField: db.BaseField{Id: 7}, Name: "Dell XPS 13", Brand: "Dell", Price: 32000000, Drawbacks: "ít cổng kết nối", Warranty: "12 tháng"},
	})
	for _, want := range []string{"id: 7", "Dell XPS 13", "32.000.000", "drawbacks: ít cổng kết nối", "warranty: 12 tháng"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}
	if !strings.HasSuffix(content, "nên mua cái nào?") {
		t.Error("question must come after the product context")
	}

	empty := buildAdvisorContent("x", nil)
	if !strings.Contains(empty, "không có sản phẩm phù hợp") {
		t.Errorf("empty context = %q", empty)
	}
}
