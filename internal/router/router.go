// File: internal/router/router.go
package router

import (
	"kiosk-report/internal/cache"
	"kiosk-report/internal/database"
	"kiosk-report/internal/handler"
	"kiosk-report/internal/handler/auth"
	"kiosk-report/internal/handler/reports"
	"kiosk-report/internal/handler/users"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/service"
	"kiosk-report/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps 為路由所需的共用資源
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Tokens    *service.TokenService
	Limiter   *cache.Limiter
	Pool      worker.Pool
	ExportDir string
	Gatherer  prometheus.Gatherer
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	requireAuth := middleware.RequireAuth(d.Tokens)

	e.GET("/", handler.RootHandler)
	e.POST("/login", auth.LoginHandler(d.DB, d.Tokens, d.Limiter))

	// 健康檢查（需登入）
	e.GET("/ping", handler.PingHandler(d.DB, d.Cache), requireAuth)

	apiUsers := e.Group("/users", requireAuth)
	apiUsers.GET("", users.ListUsersHandler(d.DB))
	apiUsers.POST("", users.CreateUserHandler(d.DB), middleware.RequireAdmin)
	apiUsers.DELETE("/:user_id", users.DeleteUserHandler(d.DB), middleware.RequireAdmin)
	apiUsers.POST("/change-password", users.ChangePasswordHandler(d.DB))

	apiReports := e.Group("/reports", requireAuth)
	apiReports.GET("", reports.ListReportsHandler(d.DB))
	apiReports.GET("/export", reports.ExportHandler(d.DB, d.ExportDir, d.Pool))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
