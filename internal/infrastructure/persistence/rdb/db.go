// Package rdb 关系型数据库持久层(GORM)
//
// 同一套模型与仓储支持MySQL、PostgreSQL、SQLite三种驱动，由database.driver选择。
// 仓储负责领域实体与GORM模型之间的转换，并把驱动错误翻译为领域错误。
package rdb

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 按驱动选择Dialector
// 2. 配置连接池(SQLite只允许单连接，避免写锁冲突)
// 3. database.auto_migrate为true时自动迁移表结构并初始化ID序列
func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected", slog.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("database migrated")
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.DSN())), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// sqliteDSN 打开外键约束并设置忙等待
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Migrate 自动迁移表结构并初始化ID序列
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&SequenceModel{},
		&UserModel{},
		&BookModel{},
		&PaymentModel{},
		&LoanModel{},
		&LostDamagedModel{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return seedSequences(db)
}

// Dialect 当前连接对应的goqu方言名
func Dialect(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "mysql"
	case "postgres":
		return "postgres"
	default:
		return "sqlite3"
	}
}
