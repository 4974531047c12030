package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "自动迁移表结构并初始化ID序列",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			cfg.Database.AutoMigrate = false
			db, err := rdb.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := rdb.Migrate(db); err != nil {
				return err
			}
			log.Info("migration finished", slog.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}
