package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/config"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// newTestService 启动一个模拟的 chat/completions 接口, 返回捕获到的请求体
func newTestService(t *testing.T, reply string, status int) (Service, *map[string]any) {
	t.Helper()
	captured := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-token")
	cfg.BaseURL = srv.URL + "/v1"
	clients := map[enum.LlmSize]*openai.Client{enum.ModelSmall: openai.NewClientWithConfig(cfg)}
	configs := []config.Llm{{Model: "test-model", Size: string(enum.ModelSmall)}}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(log, clients, configs, nil), &captured
}

func TestCompleteJsonFormatAndZeroTemperature(t *testing.T) {
	svc, captured := newTestService(t, `{"intent": "GREETING"}`, http.StatusOK)

	got, err := svc.Complete(context.Background(), &CompletionRequest{
		Size:         enum.ModelSmall,
		SystemPrompt: enum.SystemPromptIntent,
		Content:      "xin chào",
		Temperature:  Temperature(0),
		Format:       enum.ResponseFormatJsonObject,
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != `{"intent": "GREETING"}` {
		t.Errorf("Complete = %q", got)
	}

	req := *captured
	format, ok := req["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", req["response_format"])
	}
	temp, ok := req["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from request: %v", req)
	}
	if temp <= 0 || temp > 1e-6 {
		t.Errorf("temperature = %v, want an effectively zero value", temp)
	}
	if req["model"] != "test-model" {
		t.Errorf("model = %v", req["model"])
	}
}

func TestChatCompletionWithHistory(t *testing.T) {
	svc, captured := newTestService(t, "<think>suy nghĩ</think>\n  Chào bạn!", http.StatusOK)

	history := []common.LlmMessage{
		{Role: openai.ChatMessageRoleUser, Content: "hi"},
		{Role: openai.ChatMessageRoleAssistant, Content: "chào"},
	}
	got, err := svc.ChatCompletionWithHistory(context.Background(), enum.ModelSmall, enum.SystemPromptDefault, "laptop?", history)
	if err != nil {
		t.Fatalf("ChatCompletionWithHistory error: %v", err)
	}
	if got != "Chào bạn!" {
		t.Errorf("think tag not stripped: %q", got)
	}

	msgs, _ := (*captured)["messages"].([]any)
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4 (system + 2 history + user)", len(msgs))
	}
	if _, ok := (*captured)["response_format"]; ok {
		t.Error("response_format should be omitted for plain completions")
	}
}

func TestCompleteErrors(t *testing.T) {
	svc, _ := newTestService(t, "", http.StatusInternalServerError)
	if _, err := svc.ChatCompletion(context.Background(), enum.ModelSmall, enum.SystemPromptDefault, "x"); err != ErrUnavailable {
		t.Errorf("server error = %v, want ErrUnavailable", err)
	}

	empty, _ := newTestService(t, "", http.StatusOK)
	if _, err := empty.ChatCompletion(context.Background(), enum.ModelSmall, enum.SystemPromptDefault, "x"); err != ErrEmptyResult {
		t.Errorf("empty reply = %v, want ErrEmptyResult", err)
	}

	if _, err := empty.ChatCompletion(context.Background(), enum.ModelLarge, enum.SystemPromptDefault, "x"); err != ErrClientNotFound {
		t.Errorf("unknown size = %v, want ErrClientNotFound", err)
	}
}
