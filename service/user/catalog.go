package user

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/dao"
	"gitee.com/taoJie_1/mall-advisor/internal/mcp"
	"gitee.com/taoJie_1/mall-advisor/model/db"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Catalog 商品检索: 远程MCP工具 -> 语义检索 -> 数据库, 前者失败时依次降级
type Catalog interface {
	Search(ctx context.Context, f *dao.ProductFilter) ([]db.Product, error)
	ByNames(ctx context.Context, names []string) ([]db.Product, error)
}

type productRepo interface {
	Search(list *[]db.Product, f *dao.ProductFilter, tx ...*sqlx.Tx) error
	GetByIDs(list *[]db.Product, ids []uint, tx ...*sqlx.Tx) error
	GetByNames(list *[]db.Product, names []string, tx ...*sqlx.Tx) error
}

type vectorSearcher interface {
	Search(ctx context.Context, query string, topK int, minSimilarity float32) ([]dao.VectorHit, error)
}

type toolRunner interface {
	HasTool(clientName, toolName string) bool
	ExecuteTool(ctx context.Context, clientName string, toolName string, arguments json.RawMessage) (string, error)
}

type CatalogOptions struct {
	// 语义检索的候选条数与最低相似度
	TopK          int
	MinSimilarity float32
	// 远程商品目录工具, 格式: 服务名.工具名
	Tool string
}

type catalog struct {
	repo   productRepo
	vector vectorSearcher
	tools  toolRunner
	opts   CatalogOptions
	log    *logrus.Logger
}

// NewCatalog vector 与 tools 可以为 nil
func NewCatalog(repo productRepo, vector vectorSearcher, tools toolRunner, opts CatalogOptions, log *logrus.Logger) Catalog {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	return &catalog{repo: repo, vector: vector, tools: tools, opts: opts, log: log}
}

type toolArguments struct {
	Keyword  string `json:"keyword,omitempty"`
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
	PriceMin int64  `json:"price_min,omitempty"`
	PriceMax int64  `json:"price_max,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (c *catalog) Search(ctx context.Context, f *dao.ProductFilter) ([]db.Product, error) {
	if f == nil {
		f = &dao.ProductFilter{}
	}

	if products, ok := c.searchRemote(ctx, f); ok {
		return products, nil
	}

	if f.Keyword != "" && c.vector != nil {
		products, err := c.searchSemantic(ctx, f)
		if err != nil {
			c.log.Warnf("[catalog] 语义检索失败, 改用数据库查询: %v", err)
		} else if len(products) > 0 {
			return products, nil
		}
	}

	var list []db.Product
	if err := c.repo.Search(&list, f); err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	// 关键词过严时放宽为只按其他条件查询
	if len(list) == 0 && f.Keyword != "" && hasStructuredFilter(f) {
		relaxed := *f
		relaxed.Keyword = ""
		if err := c.repo.Search(&list, &relaxed); err != nil {
			return nil, fmt.Errorf("查询商品失败: %w", err)
		}
	}
	return list, nil
}

func (c *catalog) ByNames(ctx context.Context, names []string) ([]db.Product, error) {
	var list []db.Product
	if err := c.repo.GetByNames(&list, names); err != nil {
		return nil, fmt.Errorf("按名称查询商品失败: %w", err)
	}
	return list, nil
}

// searchSemantic 语义召回后再按价格、分类等条件过滤
func (c *catalog) searchSemantic(ctx context.Context, f *dao.ProductFilter) ([]db.Product, error) {
	hits, err := c.vector.Search(ctx, f.Keyword, c.opts.TopK, c.opts.MinSimilarity)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(hits))
	for i, h := range hits {
		ids[i] = h.ProductID
	}
	var candidates []db.Product
	if err := c.repo.GetByIDs(&candidates, ids); err != nil {
		return nil, err
	}

	products := make([]db.Product, 0, len(candidates))
	for _, p := range candidates {
		if matchesFilter(&p, f) {
			products = append(products, p)
		}
	}
	sortProducts(products, f.SortBy)
	if f.Limit > 0 && len(products) > f.Limit {
		products = products[:f.Limit]
	}
	return products, nil
}

// sortProducts 与数据库查询的排序规则一致, 未指定时保持召回顺序
func sortProducts(products []db.Product, sortBy enum.SortBy) {
	var compare func(a, b db.Product) int
	switch sortBy {
	case enum.SortByPriceAsc:
		compare = func(a, b db.Product) int {
			return cmp.Or(cmp.Compare(a.Price, b.Price), cmp.Compare(a.Id, b.Id))
		}
	case enum.SortByPriceDesc:
		compare = func(a, b db.Product) int {
			return cmp.Or(cmp.Compare(b.Price, a.Price), cmp.Compare(a.Id, b.Id))
		}
	case enum.SortByNewest:
		compare = func(a, b db.Product) int {
			return cmp.Or(cmp.Compare(b.CreatedAt, a.CreatedAt), cmp.Compare(b.Id, a.Id))
		}
	default:
		return
	}
	slices.SortStableFunc(products, compare)
}

func (c *catalog) searchRemote(ctx context.Context, f *dao.ProductFilter) ([]db.Product, bool) {
	if c.tools == nil || c.opts.Tool == "" {
		return nil, false
	}
	clientName, toolName, ok := mcp.ParseToolName(c.opts.Tool)
	if !ok || !c.tools.HasTool(clientName, toolName) {
		return nil, false
	}

	args, err := json.Marshal(toolArguments{
		Keyword:  f.Keyword,
		Category: f.Category,
		Brand:    f.Brand,
		PriceMin: f.PriceMin,
		PriceMax: f.PriceMax,
		SortBy:   string(f.SortBy),
		Limit:    f.Limit,
	})
	if err != nil {
		return nil, false
	}

	raw, err := c.tools.ExecuteTool(ctx, clientName, toolName, args)
	if err != nil {
		c.log.Warnf("[catalog] 远程商品工具调用失败, 改用本地数据: %v", err)
		return nil, false
	}

	var products []db.Product
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &products); err != nil {
		c.log.Warnf("[catalog] 远程商品工具返回格式错误, 改用本地数据: %v", err)
		return nil, false
	}
	// 空结果同样交给本地数据
	if len(products) == 0 {
		return nil, false
	}
	if f.Limit > 0 && len(products) > f.Limit {
		products = products[:f.Limit]
	}
	return products, true
}

func hasStructuredFilter(f *dao.ProductFilter) bool {
	return f.Category != "" || f.Brand != "" || f.PriceMin > 0 || f.PriceMax > 0
}

func matchesFilter(p *db.Product, f *dao.ProductFilter) bool {
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.PriceMin > 0 && p.Price < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && p.Price > f.PriceMax {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	return true
}
