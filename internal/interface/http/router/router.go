package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/interface/http/handler"
	"github.com/xiebiao/bookinventory/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/response"
)

// NewRouter 创建并配置Gin引擎
//
// 中间件顺序：
//
//	Tracing → Logger → Metrics → Recovery → Handler
//
// Recovery放在最内层，panic转成500后仍会被日志和指标记录
func NewRouter(cfg *config.Config, log *slog.Logger, db *gorm.DB, bookHandler *handler.BookHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	// /api/books/ 不重定向到 /api/books，未匹配的路径和方法统一返回404
	r.RedirectTrailingSlash = false
	r.HandleMethodNotAllowed = false

	r.Use(
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.Recovery(),
	)

	// 健康检查
	r.GET("/ping", ping(db))

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	books := r.Group("/api/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.GET("/:id", bookHandler.GetBook)
		books.PUT("/:id", bookHandler.UpdateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, apperrors.ErrRouteNotFound)
	})

	return r
}

// ping 健康检查，同时检查数据库连接
func ping(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				logger.FromContext(c.Request.Context()).Error("database ping failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, response.Response{
					Success: false,
					Error:   "Service unavailable",
				})
				return
			}
		}

		response.Success(c, gin.H{"status": "healthy"})
	}
}
