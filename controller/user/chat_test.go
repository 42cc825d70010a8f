package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/dto"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/service"
	"gitee.com/taoJie_1/mall-advisor/service/user"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type stubChat struct {
	calls   int
	err     error
	resetID string
}

func (s *stubChat) Chat(_ context.Context, req *common.ChatRequest) (*dto.ChatReply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ChatReply{SessionID: "s-1", Intent: enum.IntentGreeting, Reply: "echo: " + req.Message}, nil
}

func (s *stubChat) Reset(_ context.Context, sessionID string) error {
	s.resetID = sessionID
	return s.err
}

func (s *stubChat) Script() []dto.ScriptStep {
	return []dto.ScriptStep{{Step: 1, Key: enum.SlotCategory, Question: "q1"}}
}

func setup(t *testing.T, chat *stubChat) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	global.Log = log

	prev := service.Service.UserServiceGroup
	service.Service.UserServiceGroup = user.ServiceGroup{
		ChatService: chat,
		Validator:   &user.Validator{MaxPromptLength: 20},
	}
	t.Cleanup(func() { service.Service.UserServiceGroup = prev })

	api := ChatApi{}
	r := gin.New()
	r.POST("/chat", api.HandleChat)
	r.GET("/script", api.Script)
	r.DELETE("/session/:id", api.ResetSession)
	return r
}

func do(r *gin.Engine, method, path, body string) common.Response {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp common.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestHandleChatValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  enum.ResCode
		wantCalls int
	}{
		{"ok", `{"message": "xin chào"}`, enum.SuccessCode, 1},
		{"not json", `hello`, enum.ErrorCode, 0},
		{"missing message", `{"session_id": "abc"}`, enum.ErrorCode, 0},
		{"blank message", `{"message": "   "}`, enum.ErrorCode, 0},
		{"too long", `{"message": "` + strings.Repeat("a", 21) + `"}`, enum.ErrorCode, 0},
		{"session id too long", `{"session_id": "` + strings.Repeat("x", 65) + `", "message": "hi"}`, enum.ErrorCode, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChat{}
			r := setup(t, chat)

			resp := do(r, http.MethodPost, "/chat", tt.body)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d (msg %q)", resp.Code, tt.wantCode, resp.Msg)
			}
			if chat.calls != tt.wantCalls {
				t.Errorf("chat calls = %d, want %d", chat.calls, tt.wantCalls)
			}
		})
	}
}

func TestHandleChatReply(t *testing.T) {
	r := setup(t, &stubChat{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Code enum.ResCode  `json:"code"`
		Data dto.ChatReply `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Reply != "echo: hi" || resp.Data.SessionID != "s-1" {
		t.Errorf("reply = %+v", resp.Data)
	}
}

func TestHandleChatServiceError(t *testing.T) {
	r := setup(t, &stubChat{err: errors.New("boom")})

	resp := do(r, http.MethodPost, "/chat", `{"message": "hi"}`)
	if resp.Code != enum.ErrorCode {
		t.Errorf("code = %d, want error", resp.Code)
	}
}

func TestScriptAndReset(t *testing.T) {
	chat := &stubChat{}
	r := setup(t, chat)

	resp := do(r, http.MethodGet, "/script", "")
	steps, ok := resp.Data.([]any)
	if resp.Code != enum.SuccessCode || !ok || len(steps) != 1 {
		t.Errorf("script response = %+v", resp)
	}

	resp = do(r, http.MethodDelete, "/session/abc", "")
	if resp.Code != enum.SuccessCode || chat.resetID != "abc" {
		t.Errorf("reset response = %+v, resetID = %q", resp, chat.resetID)
	}

	resp = do(r, http.MethodDelete, "/session/"+strings.Repeat("x", 65), "")
	if resp.Code != enum.ErrorCode {
		t.Errorf("long session id accepted: %+v", resp)
	}
}
