package common

// Session 单个会话的状态, 存放在Redis中, 只由持有该会话锁的请求修改
type Session struct {
	ID        string       `json:"id"`
	Consult   ConsultState `json:"consult"`
	History   []LlmMessage `json:"history"`
	UpdatedAt int64        `json:"updated_at"`
}

// ConsultState 咨询流程进度
type ConsultState struct {
	Active bool `json:"active"`
	// 最近一次提问的步骤下标, -1 表示尚未提问
	Step int `json:"step"`
	// 已经从头补问的轮数
	Round int        `json:"round"`
	Slots SlotRecord `json:"slots"`
}

// NewSession 创建一个空会话
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Consult: ConsultState{Step: -1},
	}
}

// ResetConsult 结束或重新开始咨询
func (s *Session) ResetConsult() {
	s.Consult = ConsultState{Step: -1}
}

// AppendHistory 追加消息并只保留最近 window 条
func (s *Session) AppendHistory(window int, messages ...LlmMessage) {
	s.History = append(s.History, messages...)
	if window > 0 && len(s.History) > window {
		s.History = append([]LlmMessage(nil), s.History[len(s.History)-window:]...)
	}
}
