package dao

import (
	"errors"
	"fmt"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/model/db"
	"github.com/jmoiron/sqlx"
)

type LeadDb struct{}

// Insert 保存一条咨询线索
func (d *LeadDb) Insert(lead *db.ConsultLead, tx ...*sqlx.Tx) error {
	if lead == nil || strings.TrimSpace(lead.Phone) == "" {
		return errors.New("线索缺少电话[ld0x]")
	}

	sql, args, err := utils.getBatchInsertSql(db.ConsultLead{}, []map[string]interface{}{{
		"session_id": lead.SessionId,
		"phone":      strings.TrimSpace(lead.Phone),
		"category":   lead.Category,
		"purpose":    lead.Purpose,
		"budget":     lead.Budget,
		"brand":      lead.Brand,
		"priority":   lead.Priority,
	}})
	if err != nil {
		return fmt.Errorf("构建插入SQL失败: %w", err)
	}

	if _, err := exec(tx, sql, args...); err != nil {
		return fmt.Errorf("保存线索失败: %w", err)
	}
	return nil
}

// ListBySession 查询会话留下的线索
func (d *LeadDb) ListBySession(list *[]db.ConsultLead, sessionID string, tx ...*sqlx.Tx) error {
	sql := fmt.Sprintf("SELECT `id`, `session_id`, `phone`, `category`, `purpose`, `budget`, `brand`, `priority`, `created_at`, `updated_at` FROM `%s` WHERE `session_id` = ? ORDER BY `id` ASC", db.ConsultLead{}.TableName())
	return selectList(tx, list, sql, sessionID)
}
