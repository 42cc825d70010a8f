package dao

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/model/db"
	"github.com/jmoiron/sqlx"
)

type dbUtils struct{}

// getBatchInsertSql 生成批量插入语句, 每行字段必须一致; 未提供的时间字段自动填充
func (u *dbUtils) getBatchInsertSql(d db.Dbfunc, data []map[string]interface{}) (string, []interface{}, error) {
	if len(data) == 0 {
		return "", nil, nil
	}

	// 顺序
	keys := make([]string, 0, len(data[0])+2)
	for k := range data[0] {
		keys = append(keys, k)
	}
	tags := db.GetBaseFieldDbTags()
	for _, tag := range []string{tags.CreatedAtDbTag, tags.UpdatedAtDbTag} {
		if _, exists := data[0][tag]; tag != "" && !exists {
			keys = append(keys, tag)
		}
	}
	sort.Strings(keys)

	var fields strings.Builder
	fields.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			fields.WriteString(", ")
		}
		fields.WriteByte('`')
		fields.WriteString(k)
		fields.WriteByte('`')
	}
	fields.WriteByte(')')

	valueStrings := make([]string, 0, len(data))
	valueArgs := make([]interface{}, 0, len(data)*len(keys))
	now := time.Now().Unix()

	for _, row := range data {
		for _, tag := range []string{tags.CreatedAtDbTag, tags.UpdatedAtDbTag} {
			if _, exists := row[tag]; tag != "" && !exists {
				row[tag] = now
			}
		}
		if len(row) != len(keys) {
			return "", nil, fmt.Errorf("批量插入失败：数据行的字段数量不一致")
		}

		valueStrings = append(valueStrings, "(?"+strings.Repeat(", ?", len(keys)-1)+")")

		for _, k := range keys {
			val, ok := row[k]
			if !ok {
				return "", nil, fmt.Errorf("批量插入失败：数据行缺少字段 '%s'", k)
			}
			valueArgs = append(valueArgs, val)
		}
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO `")
	sql.WriteString(d.TableName())
	sql.WriteString("` ")
	sql.WriteString(fields.String())
	sql.WriteString(" VALUES ")
	sql.WriteString(strings.Join(valueStrings, ", "))

	return sql.String(), valueArgs, nil
}

// exec 有事务时使用事务执行
func exec(tx []*sqlx.Tx, query string, args ...interface{}) (int64, error) {
	if len(tx) > 0 && tx[0] != nil {
		res, err := tx[0].Exec(tx[0].Rebind(query), args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	res, err := DB.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func selectList(tx []*sqlx.Tx, dest interface{}, query string, args ...interface{}) error {
	if len(tx) > 0 && tx[0] != nil {
		return tx[0].Select(dest, tx[0].Rebind(query), args...)
	}
	return DB.Select(dest, DB.Rebind(query), args...)
}

// Tx 在事务中执行 fn, fn 返回错误或 panic 时回滚
func Tx(fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("开启事务失败[tx0b]: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
