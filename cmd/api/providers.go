package main

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/circulation"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/notify"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/mq"
)

// App serve命令运行所需的全部组件
type App struct {
	Engine   *gin.Engine
	Reminder *notify.Reminder
}

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis redis.enabled为false时返回nil，会话与缓存退化为空实现
func provideRedis(cfg *config.Config, log *slog.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		log.Warn("redis disabled, sessions and book cache are not persisted")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// sessionBackend 登录会话与Token黑名单由同一个存储提供
type sessionBackend interface {
	appuser.SessionStore
	middleware.TokenBlacklist
}

func provideSessionBackend(client *goredis.Client) sessionBackend {
	if client == nil {
		return appuser.NopSessionStore{}
	}
	return redis.NewSessionStore(client)
}

func provideSessionStore(b sessionBackend) appuser.SessionStore {
	return b
}

func provideTokenBlacklist(b sessionBackend) middleware.TokenBlacklist {
	return b
}

func provideBookCache(client *goredis.Client, cfg *config.Config) bookapp.Cache {
	if client == nil {
		return bookapp.NopCache{}
	}
	return redis.NewBookCache(client, cfg)
}

// provideEventPublisher mq.enabled时发往RabbitMQ，否则只写日志
func provideEventPublisher(cfg *config.Config, log *slog.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return notify.NewLogNotifier(log), func() {}, nil
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("close mq publisher failed", slog.Any("error", err))
		}
	}
	return notify.NewMQNotifier(pub, pub.Exchange(), cfg.MQ.BreakerOpen, log), cleanup, nil
}

func provideTxManager(db *gorm.DB) txn.Manager {
	return rdb.NewTxManager(db)
}

func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

func provideBookService(repo book.Repository) book.Service {
	return book.NewService(repo)
}

// providePolicy 借期、罚款金额、归还是否恢复库存
func providePolicy(cfg *config.Config) (loan.Policy, error) {
	fine, err := cfg.Circulation.Fine()
	if err != nil {
		return loan.Policy{}, err
	}
	return loan.Policy{
		LoanDays:        cfg.Circulation.LoanDays,
		FineAmount:      fine,
		RestockOnReturn: cfg.Circulation.RestockOnReturn,
	}, nil
}

func provideCirculation(
	tx txn.Manager,
	users user.Repository,
	books book.Repository,
	loans loan.Repository,
	payments payment.Repository,
	events event.Publisher,
	policy loan.Policy,
	cache bookapp.Cache,
	log *slog.Logger,
) *circulation.Service {
	return circulation.NewService(tx, users, books, loans, payments, events, policy, log,
		circulation.WithBookCache(cache),
	)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideReminder(cfg *config.Config, loans loan.Repository, events event.Publisher, log *slog.Logger) *notify.Reminder {
	return notify.NewReminder(loans, events, cfg.Reminder.Interval, log)
}

// provideHealthHandler 数据库必查，Redis启用时才查
func provideHealthHandler(db *gorm.DB, client *goredis.Client) *handler.HealthHandler {
	checks := []handler.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if client != nil {
		checks = append(checks, handler.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		})
	}
	return handler.NewHealthHandler(checks...)
}

func provideEngine(cfg *config.Config, log *slog.Logger, h router.Handlers, auth *middleware.AuthMiddleware) (*gin.Engine, error) {
	return router.New(router.Options{
		Mode:       cfg.Server.Mode,
		EnableDocs: cfg.Server.EnableDocs,
	}, log, h, auth)
}
