package common

// ChatRequest 店铺前端聊天窗口发送过来的消息体
type ChatRequest struct {
	// 会话ID, 为空时由服务端生成并在响应中返回
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}
