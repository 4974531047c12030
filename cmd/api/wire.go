//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"log/slog"

	"github.com/google/wire"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/dashboard"
	"github.com/xiebiao/library/internal/application/lostdamaged"
	apppayment "github.com/xiebiao/library/internal/application/payment"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息发布
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideSessionBackend,
	provideSessionStore,
	provideTokenBlacklist,
	provideBookCache,
	provideEventPublisher,
	provideTxManager,
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewBookRepository,
	rdb.NewLoanRepository,
	rdb.NewPaymentRepository,
	rdb.NewLostDamagedRepository,
	rdb.NewStatsRepository,
)

// domainSet 领域服务与借阅策略
var domainSet = wire.NewSet(
	provideUserService,
	provideBookService,
	providePolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appuser.NewListUsersUseCase,
	appuser.NewGetUserUseCase,
	appuser.NewUpdateUserUseCase,
	appuser.NewDeleteUserUseCase,

	appbook.NewListBooksUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,

	apppayment.NewCreatePaymentUseCase,
	apppayment.NewUpdatePaymentUseCase,
	apppayment.NewListPaymentsUseCase,
	apppayment.NewListUserPaymentsUseCase,
	apppayment.NewDeletePaymentUseCase,

	provideCirculation,
	lostdamaged.NewService,
	dashboard.NewService,
	provideReminder,
)

// httpSet 中间件、处理器、路由
var httpSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCirculationHandler,
	handler.NewPaymentHandler,
	handler.NewLostDamagedHandler,
	handler.NewDashboardHandler,
	provideHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// initializeApp 组装serve命令需要的全部组件
// cleanup按创建的逆序关闭消息发布、Redis、数据库连接
func initializeApp(cfg *config.Config, log *slog.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		httpSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
