package user

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

func TestClassifyFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"backend error", "", errors.New("connection refused")},
		{"not json", "not json", nil},
		{"empty", "", nil},
		{"unknown intent", `{"intent": "BUY_NOW", "query": {}}`, nil},
		{"lowercase intent", `{"intent": "greeting"}`, nil},
		{"missing intent", `{"query": {"keyword": "laptop"}}`, nil},
		{"bad sort value", `{"intent": "SEARCH_PRODUCT", "query": {"sort_by": "cheapest"}}`, nil},
		{"wrong price type", `{"intent": "SEARCH_PRODUCT", "query": {"price_max": "20 triệu"}}`, nil},
		{"markdown fenced", "```json\n{\"intent\": \"GREETING\"}\n```", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptIntent: tt.reply}, err: tt.err}
			got := NewIntentClassifier(stub, 0, testLogger(), nil).Classify(context.Background(), "xin chào")
			if !reflect.DeepEqual(got, common.DefaultIntentResult()) {
				t.Errorf("Classify = %+v, want default OTHER result", got)
			}
		})
	}
}

func TestClassifyRequest(t *testing.T) {
	stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptIntent: `{"intent": "GREETING", "query": {}}`}}
	NewIntentClassifier(stub, 0, testLogger(), nil).Classify(context.Background(), "chào shop")

	req := stub.last()
	if req.SystemPrompt != enum.SystemPromptIntent {
		t.Error("classifier must use the intent prompt")
	}
	if req.Temperature == nil || *req.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", req.Temperature)
	}
	if req.Format != enum.ResponseFormatJsonObject {
		t.Errorf("format = %q, want json_object", req.Format)
	}
	if req.Content != "chào shop" {
		t.Errorf("content = %q", req.Content)
	}
}

func TestClassifyQuery(t *testing.T) {
	reply := `{
		"intent": "SEARCH_PRODUCT",
		"query": {
			"keyword": " laptop gaming ",
			"category": "Laptop",
			"products_to_compare": [],
			"quantity": 2,
			"price_max": 15000000,
			"price_min": 30000000,
			"sort_by": "price_asc",
			"device_model": null
		}
	}`
	stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptIntent: reply}}
	got := NewIntentClassifier(stub, 0, testLogger(), nil).Classify(context.Background(), "laptop gaming 15-30 triệu")

	if got.Intent != enum.IntentSearchProduct {
		t.Fatalf("Intent = %s", got.Intent)
	}
	q := got.Query
	if q.Keyword != "laptop gaming" {
		t.Errorf("Keyword = %q", q.Keyword)
	}
	if q.Category == nil || *q.Category != "Laptop" {
		t.Errorf("Category = %v", q.Category)
	}
	if q.Quantity == nil || *q.Quantity != 2 {
		t.Errorf("Quantity = %v", q.Quantity)
	}
	// 上下限颠倒时交换
	if q.PriceMin != 15000000 || q.PriceMax != 30000000 {
		t.Errorf("price range = [%d, %d]", q.PriceMin, q.PriceMax)
	}
	if q.SortBy == nil || *q.SortBy != enum.SortByPriceAsc {
		t.Errorf("SortBy = %v", q.SortBy)
	}
	if q.DeviceModel != nil {
		t.Errorf("DeviceModel = %v, want nil", *q.DeviceModel)
	}
}

func TestClassifyQuantityBounds(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     int
	}{
		{"missing", "null", 0},
		{"below one", "0.4", 0},
		{"rounded", "2.6", 3},
		{"upper bound", "100", 100},
		{"too many", "101", 0},
		{"huge", "1e300", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := `{"intent": "SEARCH_PRODUCT", "query": {"keyword": "chuột", "quantity": ` + tt.quantity + `}}`
			stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptIntent: reply}}
			got := NewIntentClassifier(stub, 0, testLogger(), nil).Classify(context.Background(), "x")

			if got.Intent != enum.IntentSearchProduct {
				t.Fatalf("Intent = %s", got.Intent)
			}
			q := got.Query.Quantity
			if tt.want == 0 {
				if q != nil {
					t.Errorf("Quantity = %d, want nil", *q)
				}
				return
			}
			if q == nil || *q != tt.want {
				t.Errorf("Quantity = %v, want %d", q, tt.want)
			}
		})
	}
}

func TestClassifyIntentClosure(t *testing.T) {
	for _, intent := range enum.Intents {
		stub := &stubLlm{replies: map[enum.SystemPrompt]string{enum.SystemPromptIntent: `{"intent": "` + string(intent) + `"}`}}
		got := NewIntentClassifier(stub, 0, testLogger(), nil).Classify(context.Background(), "x")
		if got.Intent != intent {
			t.Errorf("Classify(%s) = %s", intent, got.Intent)
		}
		if !got.Intent.Valid() {
			t.Errorf("leaked intent %q", got.Intent)
		}
	}
}

func TestClassifyNilService(t *testing.T) {
	got := NewIntentClassifier(nil, 0, testLogger(), nil).Classify(context.Background(), "x")
	if got.Intent != enum.IntentOther {
		t.Errorf("Intent = %s, want OTHER", got.Intent)
	}
}
