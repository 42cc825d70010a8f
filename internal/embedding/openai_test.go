package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newTestService(t *testing.T) (Service, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		// 倒序返回, 验证按 index 还原
		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(len(req.Input[i]))},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": "test"})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-token")
	cfg.BaseURL = srv.URL + "/v1"
	return NewClient(openai.NewClientWithConfig(cfg), "test"), &calls
}

func TestCreateEmbeddingsOrder(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.CreateEmbeddings(context.Background(), []string{"a", "bbb", "cc"})
	if err != nil {
		t.Fatalf("CreateEmbeddings error: %v", err)
	}
	want := []float32{1, 3, 2}
	for i, v := range want {
		if got[i][0] != v {
			t.Errorf("embedding[%d] = %v, want %v", i, got[i][0], v)
		}
	}
}

func TestCreateEmbeddingsBatches(t *testing.T) {
	svc, calls := newTestService(t)
	texts := make([]string, maxBatchSize+6)
	for i := range texts {
		texts[i] = "x"
	}
	got, err := svc.CreateEmbeddings(context.Background(), texts)
	if err != nil {
		t.Fatalf("CreateEmbeddings error: %v", err)
	}
	if len(got) != len(texts) {
		t.Errorf("len = %d, want %d", len(got), len(texts))
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}

	empty, err := svc.CreateEmbeddings(context.Background(), nil)
	if err != nil || empty != nil {
		t.Errorf("empty input = %v, %v", empty, err)
	}
}
