// Package router 注册HTTP路由与全局中间件
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User        *handler.UserHandler
	Book        *handler.BookHandler
	Circulation *handler.CirculationHandler
	Payment     *handler.PaymentHandler
	LostDamaged *handler.LostDamagedHandler
	Dashboard   *handler.DashboardHandler
	Health      *handler.HealthHandler
}

// Options 路由选项
type Options struct {
	Mode       string // debug | release | test
	EnableDocs bool
}

// New 创建Gin引擎并注册路由
// 中间件顺序: RequestID → Logger → Recovery → Metrics
func New(opts Options, log *slog.Logger, h Handlers, auth *middleware.AuthMiddleware) (*gin.Engine, error) {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
	)

	r.GET("/ping", h.Health.Ping)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.EnableDocs {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	admin := middleware.RequireRole(user.RoleAdmin)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.User.Register)
		authGroup.POST("/login", h.User.Login)
		authGroup.POST("/refresh", h.User.Refresh)
		authGroup.POST("/logout", auth.RequireAuth(), h.User.Logout)
		authGroup.GET("/verify", auth.RequireAuth(), h.User.Verify)
	}

	// 图书查询公开，修改需要管理员
	books := api.Group("/books")
	{
		books.GET("/categories", h.Book.Categories)
		books.GET("", h.Book.List)
		books.GET("/search/:query", h.Book.Search)
		books.GET("/:id", h.Book.Get)
		books.POST("", auth.RequireAuth(), admin, h.Book.Create)
		books.PUT("/:id", auth.RequireAuth(), admin, h.Book.Update)
		books.DELETE("/:id", auth.RequireAuth(), admin, h.Book.Delete)
	}

	authorized := api.Group("")
	authorized.Use(auth.RequireAuth())

	users := authorized.Group("/users")
	{
		users.GET("", admin, h.User.List)
		users.GET("/profile", h.User.Profile)
		users.GET("/:id", h.User.Get)
		users.POST("", admin, h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", admin, h.User.Delete)
	}

	issues := authorized.Group("/issues")
	{
		issues.GET("", admin, h.Circulation.List)
		issues.POST("", h.Circulation.Issue)
		issues.PUT("/return/:id", h.Circulation.Return)
		issues.PUT("/renew/:id", h.Circulation.Renew)
		issues.GET("/user/:id", h.Circulation.ListByUser)
		issues.GET("/book/:id", h.Circulation.ListByBook)
		issues.GET("/:id", h.Circulation.Get)
	}

	payments := authorized.Group("/payments")
	{
		payments.GET("", admin, h.Payment.List)
		payments.GET("/user/:id", h.Payment.ListByUser)
		payments.POST("", h.Payment.Create)
		payments.POST("/update/:id", h.Payment.Update)
		payments.PUT("/status/:id", admin, h.Payment.ChangeStatus)
		payments.DELETE("/:id", admin, h.Payment.Delete)
	}

	lostDamaged := authorized.Group("/lost-damaged", admin)
	{
		lostDamaged.GET("", h.LostDamaged.List)
		lostDamaged.GET("/:id", h.LostDamaged.Get)
		lostDamaged.POST("", h.LostDamaged.Record)
		lostDamaged.PUT("/:id", h.LostDamaged.Update)
		lostDamaged.DELETE("/:id", h.LostDamaged.Delete)
	}

	dashboard := authorized.Group("/dashboard", admin)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/recent-issues", h.Dashboard.RecentIssues)
	}

	return r, nil
}
