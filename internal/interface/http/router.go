// Package http 路由注册
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/internal/interface/http/view"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/response"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	Mode        string // debug | release | test
	ServiceName string // Span名称前缀
	EnableDocs  bool   // 是否开放/swagger
	Logger      zerolog.Logger

	BookHandler        *handler.BookHandler
	RankingPageHandler *handler.RankingPageHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// NewRouter 创建Gin引擎并注册全部路由
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	switch cfg.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Tracing(cfg.ServiceName),
		middleware.Logger(cfg.Logger),
		middleware.Metrics(),
	)

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.EnableDocs {
		// 访问 http://localhost:8080/swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 未注册的路由同样返回统一响应结构
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	// 排行榜页面
	r.GET("/rankings/:preset", cfg.RankingPageHandler.Show)

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", cfg.BookHandler.ListBooks)
			books.GET("/:id", cfg.BookHandler.GetBook)

			// 需要登录
			auth := cfg.AuthMiddleware.RequireAuth()
			books.POST("", auth, cfg.BookHandler.CreateBook)
			books.PUT("/:id", auth, cfg.BookHandler.UpdateBook)
			books.DELETE("/:id", auth, cfg.BookHandler.DeleteBook)
			books.POST("/:id/reviews", auth, cfg.BookHandler.AddReview)
		}
	}

	return r, nil
}
