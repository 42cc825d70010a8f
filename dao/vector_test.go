package dao

import (
	"context"
	"errors"
	"testing"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/internal/vector"
	"gitee.com/taoJie_1/mall-advisor/model/db"
	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
)

type stubVectorDb struct {
	docs    map[string]vector.Document
	matches []vector.Match
	deleted []string
}

func (s *stubVectorDb) Heartbeat(context.Context) error { return nil }
func (s *stubVectorDb) Close() error                    { return nil }

func (s *stubVectorDb) Upsert(_ context.Context, _ string, documents []vector.Document) error {
	for _, d := range documents {
		s.docs[d.ID] = d
	}
	return nil
}

func (s *stubVectorDb) DeleteByIDs(_ context.Context, _ string, ids []string) (int, error) {
	for _, id := range ids {
		delete(s.docs, id)
	}
	s.deleted = append(s.deleted, ids...)
	return len(ids), nil
}

func (s *stubVectorDb) ListIDs(context.Context, string) ([]string, error) {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubVectorDb) Query(context.Context, string, []float32, int) ([]vector.Match, error) {
	return s.matches, nil
}

type stubEmbedding struct{ err error }

func (s *stubEmbedding) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func useVectorStubs(t *testing.T, v *stubVectorDb, e *stubEmbedding) {
	t.Helper()
	oldV, oldE := global.VectorDb, global.EmbeddingService
	global.VectorDb, global.EmbeddingService = v, e
	t.Cleanup(func() { global.VectorDb, global.EmbeddingService = oldV, oldE })
}

func TestProductVectorUpsertAndPrune(t *testing.T) {
	v := &stubVectorDb{docs: map[string]vector.Document{
		"product_9":   {ID: "product_9"},
		"other_doc_1": {ID: "other_doc_1"},
	}}
	useVectorStubs(t, v, &stubEmbedding{})
	pv := &ProductVector{CollectionName: "products"}

	products := []db.Product{{BaseField: db.BaseField{Id: 1}, Name: "A"}, {BaseField: db.BaseField{Id: 2}, Name: "B"}}
	if _, err := pv.BatchUpsert(context.Background(), products, [][]float32{{1}}); err == nil {
		t.Error("BatchUpsert should reject mismatched lengths")
	}
	n, err := pv.BatchUpsert(context.Background(), products, [][]float32{{1}, {2}})
	if err != nil || n != 2 {
		t.Fatalf("BatchUpsert = %d, %v", n, err)
	}
	if got, _ := v.docs["product_1"].Metadata[VectorMetadataKeyProductID].(string); got != "1" {
		t.Errorf("product_id metadata = %q, want \"1\"", got)
	}

	removed, err := pv.PruneStale(context.Background(), []string{ProductVectorID(1), ProductVectorID(2)})
	if err != nil || removed != 1 {
		t.Fatalf("PruneStale = %d, %v; want 1", removed, err)
	}
	if len(v.deleted) != 1 || v.deleted[0] != "product_9" {
		t.Errorf("deleted = %v, want [product_9]", v.deleted)
	}
	if _, ok := v.docs["other_doc_1"]; !ok {
		t.Error("documents without the product prefix must be kept")
	}
}

func TestProductVectorSearch(t *testing.T) {
	v := &stubVectorDb{matches: []vector.Match{
		{Distance: 0.1, Metadata: chroma.NewMetadataFromMap(map[string]interface{}{VectorMetadataKeyProductID: "3"})},
		{Distance: 0.2, Metadata: chroma.NewMetadataFromMap(map[string]interface{}{VectorMetadataKeyName: "no id"})},
		{Distance: 5, Metadata: chroma.NewMetadataFromMap(map[string]interface{}{VectorMetadataKeyProductID: "4"})},
	}}
	useVectorStubs(t, v, &stubEmbedding{})
	pv := &ProductVector{CollectionName: "products"}

	hits, err := pv.Search(context.Background(), "laptop mỏng nhẹ", 5, 0.5)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 || hits[0].ProductID != 3 {
		t.Errorf("hits = %+v, want only product 3", hits)
	}

	useVectorStubs(t, v, &stubEmbedding{err: errors.New("down")})
	if _, err := pv.Search(context.Background(), "x", 5, 0); err == nil {
		t.Error("Search should fail when embedding fails")
	}
}

func TestProductDocument(t *testing.T) {
	p := &db.Product{Name: "MacBook Air M2", Category: "Laptop", Brand: "Apple", Description: " "}
	if got := ProductDocument(p); got != "MacBook Air M2 | Laptop | Apple" {
		t.Errorf("ProductDocument = %q", got)
	}
}
