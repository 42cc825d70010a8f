package user

import (
	"strings"

	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/dto"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

// ScriptStep 咨询脚本中的一步
type ScriptStep struct {
	// 从1开始, 定义后不变
	Step     int
	Key      enum.SlotKey
	Question string
	// 可选, 根据已收集的字段渲染问题
	Formatter func(question string, slots *common.SlotRecord) string
}

// ScriptEngine 对固定脚本做纯计算, 本身不保存会话状态
type ScriptEngine interface {
	// Len 脚本长度, 也是"全部问完"的终止下标
	Len() int
	// NextStep 从 current+1 开始找第一个未填写字段的步骤, 全部已填返回 Len()
	NextStep(current int, slots *common.SlotRecord) int
	// QuestionFor 渲染下标对应的问题, 越界返回 false
	QuestionFor(index int, slots *common.SlotRecord) (string, bool)
	// KeyAt 下标对应的字段
	KeyAt(index int) (enum.SlotKey, bool)
	// Steps 脚本的公开描述
	Steps() []dto.ScriptStep
}

type scriptEngine struct {
	steps []ScriptStep
}

// NewScriptEngine 使用给定的步骤; 为空时使用默认脚本
func NewScriptEngine(steps ...ScriptStep) ScriptEngine {
	if len(steps) == 0 {
		steps = DefaultScript()
	}
	// 复制一份, 定义后不再修改
	return &scriptEngine{steps: append([]ScriptStep(nil), steps...)}
}

// DefaultScript 咨询顺序: 分类 -> 用途 -> 预算 -> 优先考虑 -> 电话
func DefaultScript() []ScriptStep {
	return []ScriptStep{
		{
			Step:     1,
			Key:      enum.SlotCategory,
			Question: "Anh/chị đang quan tâm đến loại sản phẩm nào ạ? (laptop, PC, màn hình, linh kiện, phụ kiện...)",
		},
		{
			Step:      2,
			Key:       enum.SlotPurpose,
			Question:  "Anh/chị dùng {category} chủ yếu cho mục đích gì ạ? (văn phòng, học tập, lập trình, đồ họa, gaming...)",
			Formatter: formatWithCategory,
		},
		{
			Step:     3,
			Key:      enum.SlotBudget,
			Question: "Ngân sách dự kiến của anh/chị khoảng bao nhiêu ạ? (ví dụ: 20 triệu)",
		},
		{
			Step:     4,
			Key:      enum.SlotPriority,
			Question: "Anh/chị ưu tiên điều gì nhất: hiệu năng, màn hình, thời lượng pin, trọng lượng hay độ bền ạ?",
		},
		{
			Step:     5,
			Key:      enum.SlotPhone,
			Question: "Anh/chị vui lòng để lại số điện thoại để nhân viên gửi báo giá và tư vấn chi tiết nhé.",
		},
	}
}

func formatWithCategory(question string, slots *common.SlotRecord) string {
	category := "sản phẩm"
	if slots != nil && slots.Category.IsFilled() {
		category = slots.Category.Value
	}
	return strings.ReplaceAll(question, "{category}", category)
}

func (e *scriptEngine) Len() int {
	return len(e.steps)
}

func (e *scriptEngine) NextStep(current int, slots *common.SlotRecord) int {
	if slots == nil {
		slots = &common.SlotRecord{}
	}
	start := max(current+1, 0)
	for i := start; i < len(e.steps); i++ {
		// Pending 仍需回答
		if !slots.IsFilled(e.steps[i].Key) {
			return i
		}
	}
	return len(e.steps)
}

func (e *scriptEngine) QuestionFor(index int, slots *common.SlotRecord) (string, bool) {
	if index < 0 || index >= len(e.steps) {
		return "", false
	}
	step := e.steps[index]
	if step.Formatter != nil {
		return step.Formatter(step.Question, slots), true
	}
	return step.Question, true
}

func (e *scriptEngine) KeyAt(index int) (enum.SlotKey, bool) {
	if index < 0 || index >= len(e.steps) {
		return "", false
	}
	return e.steps[index].Key, true
}

func (e *scriptEngine) Steps() []dto.ScriptStep {
	out := make([]dto.ScriptStep, len(e.steps))
	for i, s := range e.steps {
		out[i] = dto.ScriptStep{Step: s.Step, Key: s.Key, Question: s.Question}
	}
	return out
}
