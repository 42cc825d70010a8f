package dao

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/internal/vector"
	"gitee.com/taoJie_1/mall-advisor/model/db"
)

// ProductVectorIDPrefix 向量库中商品文档ID的前缀
const ProductVectorIDPrefix = "product_"

// 向量数据库中元数据的键名
const (
	VectorMetadataKeyProductID = "product_id"
	VectorMetadataKeyName      = "name"
	VectorMetadataKeyCategory  = "category"
)

// VectorHit 一条语义检索结果
type VectorHit struct {
	ProductID  uint
	Similarity float32
}

type ProductVector struct {
	CollectionName string
}

// ProductVectorID 商品在向量库中的文档ID
func ProductVectorID(id uint) string {
	return fmt.Sprintf("%s%d", ProductVectorIDPrefix, id)
}

// ProductDocument 用于生成商品向量的文本
func ProductDocument(p *db.Product) string {
	parts := []string{p.Name, p.Category, p.Brand, p.Description, p.Specs}
	var b strings.Builder
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(s)
	}
	return b.String()
}

// BatchUpsert 写入商品向量, embeddings 与 products 一一对应
func (d *ProductVector) BatchUpsert(ctx context.Context, products []db.Product, embeddings [][]float32) (int, error) {
	if global.VectorDb == nil {
		return 0, fmt.Errorf("向量数据库客户端未初始化")
	}
	if len(products) != len(embeddings) {
		return 0, fmt.Errorf("商品与向量数量不一致: %d != %d", len(products), len(embeddings))
	}
	if len(products) == 0 {
		return 0, nil
	}

	documents := make([]vector.Document, len(products))
	for i, p := range products {
		documents[i] = vector.Document{
			ID: ProductVectorID(p.Id),
			Metadata: map[string]interface{}{
				// 以字符串保存, 避免数值类型在往返中变化
				VectorMetadataKeyProductID: strconv.FormatUint(uint64(p.Id), 10),
				VectorMetadataKeyName:      p.Name,
				VectorMetadataKeyCategory:  p.Category,
			},
			Embedding: embeddings[i],
		}
	}

	if err := global.VectorDb.Upsert(ctx, d.CollectionName, documents); err != nil {
		return 0, fmt.Errorf("批量更新/插入文档到向量数据库失败: %w", err)
	}
	return len(documents), nil
}

// PruneStale 删除已下架商品的向量
func (d *ProductVector) PruneStale(ctx context.Context, activeIDs []string) (int, error) {
	if global.VectorDb == nil {
		return 0, fmt.Errorf("向量数据库客户端未初始化")
	}

	existingIDs, err := global.VectorDb.ListIDs(ctx, d.CollectionName)
	if err != nil {
		return 0, fmt.Errorf("从向量数据库获取所有文档ID失败: %w", err)
	}

	activeIDSet := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		activeIDSet[id] = struct{}{}
	}

	var staleIDs []string
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, ProductVectorIDPrefix) {
			continue
		}
		if _, ok := activeIDSet[id]; !ok {
			staleIDs = append(staleIDs, id)
		}
	}

	n, err := global.VectorDb.DeleteByIDs(ctx, d.CollectionName, staleIDs)
	if err != nil {
		return 0, fmt.Errorf("从向量数据库删除过期条目失败: %w", err)
	}
	return n, nil
}

// Search 语义检索商品, 相似度低于 minSimilarity 的结果被丢弃
func (d *ProductVector) Search(ctx context.Context, query string, topK int, minSimilarity float32) ([]VectorHit, error) {
	if global.VectorDb == nil {
		return nil, fmt.Errorf("向量数据库客户端未初始化")
	}
	if global.EmbeddingService == nil {
		return nil, fmt.Errorf("向量化服务未初始化")
	}

	queryEmbeddings, err := global.EmbeddingService.CreateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("为查询文本创建向量失败: %w", err)
	}
	if len(queryEmbeddings) == 0 {
		return nil, fmt.Errorf("未能为查询文本生成向量")
	}

	matches, err := global.VectorDb.Query(ctx, d.CollectionName, queryEmbeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("在向量数据库中查询失败: %w", err)
	}

	hits := make([]VectorHit, 0, len(matches))
	for _, m := range matches {
		similarity := m.Similarity()
		if similarity < minSimilarity {
			continue
		}
		if m.Metadata == nil {
			continue
		}
		raw, ok := m.Metadata.GetString(VectorMetadataKeyProductID)
		if !ok {
			global.Log.Warnf("无法从元数据中解析 product_id: %v", m.Metadata)
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			global.Log.Warnf("product_id 格式错误: %s", raw)
			continue
		}
		hits = append(hits, VectorHit{ProductID: uint(id), Similarity: similarity})
	}
	return hits, nil
}
