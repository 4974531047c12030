// @title           Library API
// @version         1.0
// @description     图书馆管理系统: 图书目录、用户、借还续借、罚款付款、遗失损坏登记
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

//go:generate swag init -g main.go -d .,../../internal/interface/http,../../internal/application -o ../../docs

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "library",
		Short:         "图书馆管理系统",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认查找./config/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newNotifierCmd(),
		newCreateAdminCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并创建Logger，所有子命令共用
func bootstrap() (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log, cleanup, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(log)
	return cfg, log, cleanup, nil
}
