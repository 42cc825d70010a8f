package dao

import (
	"errors"
	"fmt"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/model/db"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/jmoiron/sqlx"
)

type ProductDb struct{}

// ProductFilter 商品查询条件, 零值表示不限制
type ProductFilter struct {
	Keyword  string
	Category string
	Brand    string
	PriceMin int64
	PriceMax int64
	SortBy   enum.SortBy
	InStock  bool
	Limit    int
}

const productColumns = "`id`, `name`, `category`, `brand`, `price`, `stock`, `description`, `specs`, `drawbacks`, `warranty`, `created_at`, `updated_at`"

func likeArg(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// Search 按条件查询商品
func (d *ProductDb) Search(list *[]db.Product, f *ProductFilter, tx ...*sqlx.Tx) error {
	if f == nil {
		f = &ProductFilter{}
	}

	var (
		sql  strings.Builder
		args []interface{}
	)
	sql.WriteString("SELECT ")
	sql.WriteString(productColumns)
	sql.WriteString(" FROM `")
	sql.WriteString(db.Product{}.TableName())
	sql.WriteString("` WHERE 1 = 1")

	if f.Keyword != "" {
		sql.WriteString(" AND (`name` LIKE ? ESCAPE '!' OR `description` LIKE ? ESCAPE '!')")
		args = append(args, likeArg(f.Keyword), likeArg(f.Keyword))
	}
	if f.Category != "" {
		sql.WriteString(" AND `category` LIKE ? ESCAPE '!'")
		args = append(args, likeArg(f.Category))
	}
	if f.Brand != "" {
		sql.WriteString(" AND `brand` LIKE ? ESCAPE '!'")
		args = append(args, likeArg(f.Brand))
	}
	if f.PriceMin > 0 {
		sql.WriteString(" AND `price` >= ?")
		args = append(args, f.PriceMin)
	}
	if f.PriceMax > 0 {
		sql.WriteString(" AND `price` <= ?")
		args = append(args, f.PriceMax)
	}
	if f.InStock {
		sql.WriteString(" AND `stock` > 0")
	}

	switch f.SortBy {
	case enum.SortByPriceAsc:
		sql.WriteString(" ORDER BY `price` ASC, `id` ASC")
	case enum.SortByPriceDesc:
		sql.WriteString(" ORDER BY `price` DESC, `id` ASC")
	case enum.SortByNewest:
		sql.WriteString(" ORDER BY `created_at` DESC, `id` DESC")
	default:
		sql.WriteString(" ORDER BY `id` ASC")
	}

	if f.Limit > 0 {
		sql.WriteString(fmt.Sprintf(" LIMIT %d", f.Limit))
	}

	return selectList(tx, list, sql.String(), args...)
}

// GetByIDs 按给定ID的顺序返回商品, 不存在的ID被忽略
func (d *ProductDb) GetByIDs(list *[]db.Product, ids []uint, tx ...*sqlx.Tx) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM `%s` WHERE `id` IN (?)", productColumns, db.Product{}.TableName()), ids)
	if err != nil {
		return fmt.Errorf("构建查询失败[pd1a]: %w", err)
	}

	var rows []db.Product
	if err := selectList(tx, &rows, query, args...); err != nil {
		return err
	}

	byID := make(map[uint]db.Product, len(rows))
	for _, p := range rows {
		byID[p.Id] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			*list = append(*list, p)
		}
	}
	return nil
}

// GetByNames 每个名称取最匹配的一个商品(名称越短越接近)
func (d *ProductDb) GetByNames(list *[]db.Product, names []string, tx ...*sqlx.Tx) error {
	seen := make(map[uint]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		var rows []db.Product
		sql := fmt.Sprintf("SELECT %s FROM `%s` WHERE `name` LIKE ? ESCAPE '!' ORDER BY LENGTH(`name`) ASC, `id` ASC LIMIT 1", productColumns, db.Product{}.TableName())
		if err := selectList(tx, &rows, sql, likeArg(name)); err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		if _, ok := seen[rows[0].Id]; ok {
			continue
		}
		seen[rows[0].Id] = struct{}{}
		*list = append(*list, rows[0])
	}
	return nil
}

// ListAll 返回全部商品, 用于重建向量索引
func (d *ProductDb) ListAll(list *[]db.Product, tx ...*sqlx.Tx) error {
	return selectList(tx, list, fmt.Sprintf("SELECT %s FROM `%s` ORDER BY `id` ASC", productColumns, db.Product{}.TableName()))
}

// Count 商品总数
func (d *ProductDb) Count(tx ...*sqlx.Tx) (n int64, err error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM `%s`", db.Product{}.TableName())
	if len(tx) > 0 && tx[0] != nil {
		err = tx[0].Get(&n, query)
	} else {
		err = DB.Get(&n, query)
	}
	return
}

// BatchInsert 批量插入商品
func (d *ProductDb) BatchInsert(data []db.Product, tx *sqlx.Tx) (int64, error) {
	if tx == nil {
		return 0, errors.New("请使用事务[ioddfsaa]")
	}
	if len(data) == 0 {
		return 0, nil
	}

	sqlData := make([]map[string]interface{}, 0, len(data))
	for _, p := range data {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		sqlData = append(sqlData, map[string]interface{}{
			"name":        p.Name,
			"category":    p.Category,
			"brand":       p.Brand,
			"price":       p.Price,
			"stock":       p.Stock,
			"description": p.Description,
			"specs":       p.Specs,
			"drawbacks":   p.Drawbacks,
			"warranty":    p.Warranty,
		})
	}

	sql, args, err := utils.getBatchInsertSql(db.Product{}, sqlData)
	if err != nil {
		return 0, fmt.Errorf("构建批量插入SQL失败: %w", err)
	}
	if sql == "" {
		return 0, nil
	}

	n, err := exec([]*sqlx.Tx{tx}, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("批量插入数据失败: %w", err)
	}
	return n, nil
}
