package vector

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// Document 写入向量库的文档
type Document struct {
	ID        string
	Metadata  map[string]interface{}
	Embedding []float32
}

// Match 一条查询结果, Distance 越小越相似
type Match struct {
	Distance float32
	Metadata chroma.DocumentMetadata
}

// Similarity 将距离转换为 0~1 的相似度, 值越大越相似
func (m Match) Similarity() float32 {
	return float32(1.0 / (1.0 + float64(m.Distance)))
}

// Service 定义了向量数据库服务的接口，封装了底层客户端
type Service interface {
	Heartbeat(ctx context.Context) error
	Close() error
	// 批量插入或更新文档到指定的集合中
	Upsert(ctx context.Context, collectionName string, documents []Document) error
	// 根据ID批量删除文档
	DeleteByIDs(ctx context.Context, collectionName string, ids []string) (int, error)
	// ListIDs 返回集合中全部文档ID
	ListIDs(ctx context.Context, collectionName string) ([]string, error)
	// Query 返回与 embedding 最接近的 topK 条结果
	Query(ctx context.Context, collectionName string, embedding []float32, topK int) ([]Match, error)
}

type client struct {
	client chroma.Client
}

// NewClient 创建一个新的ChromaDB v2客户端实例
func NewClient(baseURL, authToken string) (Service, error) {
	clientOptions := []chroma.ClientOption{
		chroma.WithBaseURL(baseURL),
	}

	if authToken != "" {
		provider := chroma.NewTokenAuthCredentialsProvider(authToken, chroma.AuthorizationTokenHeader)
		clientOptions = append(clientOptions, chroma.WithAuth(provider))
	}

	cli, err := chroma.NewHTTPClient(clientOptions...)
	if err != nil {
		return nil, err
	}

	return &client{
		client: cli,
	}, nil
}

func (c *client) Heartbeat(ctx context.Context) error {
	return c.client.Heartbeat(ctx)
}

func (c *client) Close() error {
	return c.client.Close()
}

// noOpEmbeddingFunction 向量由 embedding 服务生成, 不使用chroma内置的嵌入函数(依赖onnxruntime)
type noOpEmbeddingFunction struct{}

func (f *noOpEmbeddingFunction) EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error) {
	return make([]embeddings.Embedding, len(texts)), nil
}

func (f *noOpEmbeddingFunction) EmbedQuery(ctx context.Context, text string) (embeddings.Embedding, error) {
	return nil, nil
}

func (c *client) collection(ctx context.Context, name string) (chroma.Collection, error) {
	col, err := c.client.GetOrCreateCollection(ctx, name, chroma.WithEmbeddingFunctionCreate(&noOpEmbeddingFunction{}))
	if err != nil {
		return nil, fmt.Errorf("获取向量集合 '%s' 失败: %w", name, err)
	}
	return col, nil
}

func (c *client) Upsert(ctx context.Context, collectionName string, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return err
	}

	documentIDs := make([]chroma.DocumentID, len(documents))
	chromaMetadatas := make([]chroma.DocumentMetadata, len(documents))
	chromaEmbeddings := make([]embeddings.Embedding, len(documents))
	for i, doc := range documents {
		documentIDs[i] = chroma.DocumentID(doc.ID)
		chromaMetadatas[i] = chroma.NewMetadataFromMap(doc.Metadata)
		chromaEmbeddings[i] = embeddings.NewEmbeddingFromFloat32(doc.Embedding)
	}

	return col.Upsert(
		ctx,
		chroma.WithIDs(documentIDs...),
		chroma.WithMetadatas(chromaMetadatas...),
		chroma.WithEmbeddings(chromaEmbeddings...),
	)
}

func (c *client) DeleteByIDs(ctx context.Context, collectionName string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}

	docIDs := make([]chroma.DocumentID, len(ids))
	for i, id := range ids {
		docIDs[i] = chroma.DocumentID(id)
	}

	if err := col.Delete(ctx, chroma.WithIDsDelete(docIDs...)); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (c *client) ListIDs(ctx context.Context, collectionName string) ([]string, error) {
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	results, err := col.Get(ctx, chroma.WithIncludeGet(chroma.IncludeURIs))
	if err != nil {
		return nil, err
	}

	docIDs := results.GetIDs()
	ids := make([]string, len(docIDs))
	for i, id := range docIDs {
		ids[i] = string(id)
	}
	return ids, nil
}

func (c *client) Query(ctx context.Context, collectionName string, embedding []float32, topK int) ([]Match, error) {
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 1
	}

	qr, err := col.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chroma.WithNResults(topK),
		chroma.WithIncludeQuery(chroma.IncludeMetadatas, chroma.IncludeDistances),
	)
	if err != nil {
		return nil, err
	}
	if qr.CountGroups() == 0 {
		return nil, nil
	}

	// 结果按查询向量分组, 这里只有一个查询向量
	distancesGroups := qr.GetDistancesGroups()
	metadatasGroups := qr.GetMetadatasGroups()
	if len(distancesGroups) < 1 || len(metadatasGroups) < 1 {
		return nil, nil
	}
	distances, metadatas := distancesGroups[0], metadatasGroups[0]

	n := min(len(distances), len(metadatas))
	matches := make([]Match, 0, n)
	for i := 0; i < n; i++ {
		matches = append(matches, Match{
			Distance: float32(distances[i]),
			Metadata: metadatas[i],
		})
	}
	return matches, nil
}
