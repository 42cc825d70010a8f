package dao

import (
	"fmt"

	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

var sqliteSchema = []string{
	"CREATE TABLE IF NOT EXISTS `products` (" +
		"`id` INTEGER PRIMARY KEY AUTOINCREMENT," +
		"`name` TEXT NOT NULL DEFAULT ''," +
		"`category` TEXT NOT NULL DEFAULT ''," +
		"`brand` TEXT NOT NULL DEFAULT ''," +
		"`price` INTEGER NOT NULL DEFAULT 0," +
		"`stock` INTEGER NOT NULL DEFAULT 0," +
		"`description` TEXT NOT NULL DEFAULT ''," +
		"`specs` TEXT NOT NULL DEFAULT ''," +
		"`drawbacks` TEXT NOT NULL DEFAULT ''," +
		"`warranty` TEXT NOT NULL DEFAULT ''," +
		"`created_at` INTEGER NOT NULL DEFAULT 0," +
		"`updated_at` INTEGER NOT NULL DEFAULT 0)",
	"CREATE INDEX IF NOT EXISTS `idx_products_category` ON `products` (`category`)",
	"CREATE TABLE IF NOT EXISTS `consult_leads` (" +
		"`id` INTEGER PRIMARY KEY AUTOINCREMENT," +
		"`session_id` TEXT NOT NULL DEFAULT ''," +
		"`phone` TEXT NOT NULL DEFAULT ''," +
		"`category` TEXT NOT NULL DEFAULT ''," +
		"`purpose` TEXT NOT NULL DEFAULT ''," +
		"`budget` INTEGER NOT NULL DEFAULT 0," +
		"`brand` TEXT NOT NULL DEFAULT ''," +
		"`priority` TEXT NOT NULL DEFAULT ''," +
		"`created_at` INTEGER NOT NULL DEFAULT 0," +
		"`updated_at` INTEGER NOT NULL DEFAULT 0)",
}

var mysqlSchema = []string{
	"CREATE TABLE IF NOT EXISTS `products` (" +
		"`id` INT UNSIGNED NOT NULL AUTO_INCREMENT," +
		"`name` VARCHAR(255) NOT NULL DEFAULT ''," +
		"`category` VARCHAR(64) NOT NULL DEFAULT ''," +
		"`brand` VARCHAR(64) NOT NULL DEFAULT ''," +
		"`price` BIGINT NOT NULL DEFAULT 0," +
		"`stock` BIGINT NOT NULL DEFAULT 0," +
		"`description` TEXT NOT NULL," +
		"`specs` TEXT NOT NULL," +
		"`drawbacks` TEXT NOT NULL," +
		"`warranty` VARCHAR(255) NOT NULL DEFAULT ''," +
		"`created_at` BIGINT NOT NULL DEFAULT 0," +
		"`updated_at` BIGINT NOT NULL DEFAULT 0," +
		"PRIMARY KEY (`id`)," +
		"KEY `idx_products_category` (`category`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `consult_leads` (" +
		"`id` INT UNSIGNED NOT NULL AUTO_INCREMENT," +
		"`session_id` VARCHAR(64) NOT NULL DEFAULT ''," +
		"`phone` VARCHAR(32) NOT NULL DEFAULT ''," +
		"`category` VARCHAR(64) NOT NULL DEFAULT ''," +
		"`purpose` VARCHAR(255) NOT NULL DEFAULT ''," +
		"`budget` BIGINT NOT NULL DEFAULT 0," +
		"`brand` VARCHAR(64) NOT NULL DEFAULT ''," +
		"`priority` VARCHAR(255) NOT NULL DEFAULT ''," +
		"`created_at` BIGINT NOT NULL DEFAULT 0," +
		"`updated_at` BIGINT NOT NULL DEFAULT 0," +
		"PRIMARY KEY (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

// Migrate 创建缺失的表
func Migrate(dbType string) error {
	stmts := sqliteSchema
	if dbType == string(enum.MYSQL) {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("建表失败[m1gr]: %w", err)
		}
	}
	return nil
}
