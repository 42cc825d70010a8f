package user

import (
	"fmt"
	"strconv"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/model/db"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/utils"
)

// KnowledgeProvider 提供顾问角色的系统提示词
type KnowledgeProvider interface {
	AdvisoryInstruction() enum.SystemPrompt
}

type knowledgeProvider struct {
	instruction enum.SystemPrompt
}

// NewKnowledgeProvider afterSalesPolicy 非空时追加到售后政策之后
func NewKnowledgeProvider(afterSalesPolicy string) KnowledgeProvider {
	instruction := enum.SystemPromptAdvisor
	if policy := strings.TrimSpace(afterSalesPolicy); policy != "" {
		instruction += enum.SystemPrompt("\n- " + policy)
	}
	return &knowledgeProvider{instruction: instruction}
}

func (k *knowledgeProvider) AdvisoryInstruction() enum.SystemPrompt {
	return k.instruction
}

// buildAdvisorContent 拼接顾问调用的用户消息: 商品上下文 + 问题
func buildAdvisorContent(question string, products []db.Product) string {
	var b strings.Builder
	b.WriteString("[CƠ SỞ DỮ LIỆU SẢN PHẨM]\n")
	if len(products) == 0 {
		b.WriteString("(không có sản phẩm phù hợp)\n")
	}
	for i := range products {
		p := &products[i]
		fmt.Fprintf(&b, "- id: %d | name: %s | category: %s | brand: %s | price: %s VND | stock: %d\n", p.Id, p.Name, p.Category, p.Brand, formatVnd(p.Price), p.Stock)
		if p.Specs != "" {
			fmt.Fprintf(&b, "  specs: %s\n", utils.Truncate(p.Specs, 400))
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "  description: %s\n", utils.Truncate(p.Description, 300))
		}
		if p.Drawbacks != "" {
			fmt.Fprintf(&b, "  drawbacks: %s\n", p.Drawbacks)
		}
		if p.Warranty != "" {
			fmt.Fprintf(&b, "  warranty: %s\n", p.Warranty)
		}
	}
	b.WriteString("\n[CÂU HỎI CỦA KHÁCH HÀNG]\n")
	b.WriteString(question)
	return b.String()
}

// formatVnd 20000000 -> 20.000.000
func formatVnd(amount int64) string {
	sign := ""
	abs := uint64(amount)
	if amount < 0 {
		sign = "-"
		abs = -abs
	}
	s := strconv.FormatUint(abs, 10)
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
