package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// 单次请求最多提交的文本数
const maxBatchSize = 64

type client struct {
	openAIClient *openai.Client
	modelName    string
}

type Service interface {
	// 批量将多个文本转换为向量, 结果与输入一一对应
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

func NewClient(openAIClient *openai.Client, modelName string) Service {
	return &client{
		openAIClient: openAIClient,
		modelName:    modelName,
	}
}

func (c *client) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		batch, err := c.createBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (c *client) createBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.openAIClient.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.modelName),
	})
	if err != nil {
		return nil, fmt.Errorf("请求LLM向量化错误: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("向量数据不匹配: expected %d, got %d", len(texts), len(resp.Data))
	}

	// 按 index 还原顺序
	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("向量数据下标越界: %d", data.Index)
		}
		embeddings[data.Index] = data.Embedding
	}
	return embeddings, nil
}
