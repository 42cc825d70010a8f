package user

import (
	"context"
	"io"
	"sync"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/redis"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stubLlm 按系统提示词返回预设内容, 并记录收到的请求
type stubLlm struct {
	mu       sync.Mutex
	replies  map[enum.SystemPrompt]string
	err      error
	requests []llm.CompletionRequest
}

func (s *stubLlm) ChatCompletion(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, temperature ...float32) (string, error) {
	return s.ChatCompletionWithHistory(ctx, size, systemPrompt, content, nil, temperature...)
}

func (s *stubLlm) ChatCompletionWithHistory(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, history []common.LlmMessage, temperature ...float32) (string, error) {
	req := &llm.CompletionRequest{Size: size, SystemPrompt: systemPrompt, Content: content, History: history}
	if len(temperature) > 0 {
		req.Temperature = llm.Temperature(temperature[0])
	}
	return s.Complete(ctx, req)
}

func (s *stubLlm) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, *req)
	if s.err != nil {
		return "", s.err
	}
	return s.replies[req.SystemPrompt], nil
}

func (s *stubLlm) last() llm.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func newTestRedis(t *testing.T) (redis.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("连接 miniredis 失败: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}
