// Package rdbtest 测试用的SQLite数据库
package rdbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

// Open 在临时目录创建已迁移的SQLite数据库，测试结束时关闭
// 使用文件而不是:memory:，保证连接池重建连接后数据仍在
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "library.db"),
			AutoMigrate: true,
		},
	}

	db, err := rdb.NewDB(cfg, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
