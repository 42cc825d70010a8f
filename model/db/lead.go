package db

// ConsultLead 完成咨询后留下的销售线索
type ConsultLead struct {
	BaseField
	SessionId string `db:"session_id" json:"session_id" info:"会话id"`
	Phone     string `db:"phone" json:"phone" info:"电话"`
	Category  string `db:"category" json:"category" info:"分类"`
	Purpose   string `db:"purpose" json:"purpose" info:"用途"`
	Budget    int64  `db:"budget" json:"budget" info:"预算(VND)"`
	Brand     string `db:"brand" json:"brand" info:"品牌"`
	Priority  string `db:"priority" json:"priority" info:"优先考虑"`
}

func (ConsultLead) TableName() string {
	return `consult_leads`
}
