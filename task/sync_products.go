package task

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gitee.com/taoJie_1/mall-advisor/dao"
	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/db"
	"github.com/jmoiron/sqlx"
)

// ProductReindexer 把商品表同步到向量数据库, 并删除已下架商品的向量
func (m *Manager) ProductReindexer() error {
	if m.embeddingService == nil || global.VectorDb == nil {
		global.Log.Info("向量化服务或向量数据库未启用, 跳过商品索引任务")
		return nil
	}

	ctx := context.Background()
	global.Log.Info("开始重建商品向量索引...")

	var products []db.Product
	if err := dao.App.ProductDb.ListAll(&products); err != nil {
		return fmt.Errorf("读取商品失败: %w", err)
	}

	texts := make([]string, len(products))
	activeIDs := make([]string, len(products))
	for i := range products {
		texts[i] = dao.ProductDocument(&products[i])
		activeIDs[i] = dao.ProductVectorID(products[i].Id)
	}

	if len(texts) > 0 {
		vectors, err := m.embeddingService.CreateEmbeddings(ctx, texts)
		if err != nil {
			return fmt.Errorf("批量创建向量失败: %w", err)
		}

		n, err := dao.App.ProductVector.BatchUpsert(ctx, products, vectors)
		if err != nil {
			global.Log.Errorln("[pv8s2k]同步商品到向量数据库失败:", err)
			return fmt.Errorf("同步商品到向量数据库失败: %w", err)
		}
		global.Log.Infof("成功同步 %d 个商品到向量数据库", n)
	}

	// 清理失败不影响本次索引
	if n, err := dao.App.ProductVector.PruneStale(ctx, activeIDs); err != nil {
		global.Log.Warnf("[pv8s2m]清理向量数据库中过期条目失败: %v", err)
	} else if n > 0 {
		global.Log.Infof("已清理 %d 个下架商品的向量", n)
	}
	return nil
}

// ImportProducts 商品表为空时从JSON文件导入商品
func (m *Manager) ImportProducts(path string) (int64, error) {
	if path == "" {
		return 0, nil
	}

	count, err := dao.App.ProductDb.Count()
	if err != nil {
		return 0, fmt.Errorf("统计商品失败: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("读取商品文件 '%s' 失败: %w", path, err)
	}
	var products []db.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return 0, fmt.Errorf("解析商品文件 '%s' 失败: %w", path, err)
	}

	var n int64
	err = dao.Tx(func(tx *sqlx.Tx) (e error) {
		n, e = dao.App.ProductDb.BatchInsert(products, tx)
		return
	})
	if err != nil {
		return 0, fmt.Errorf("导入商品失败: %w", err)
	}
	global.Log.Infof("已从 %s 导入 %d 个商品", path, n)
	return n, nil
}
