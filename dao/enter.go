package dao

import (
	"github.com/jmoiron/sqlx"
)

var (
	DB *sqlx.DB
	// mysql支持 SELECT ... FOR UPDATE
	CanLock bool
	App     = new(AppGroup)
)

type AppGroup struct {
	ProductDb     ProductDb
	LeadDb        LeadDb
	ProductVector ProductVector
}

var utils = new(dbUtils)
