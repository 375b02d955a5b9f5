//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明：
// 1. Wire在编译期生成依赖创建代码（wire_gen.go），零运行时开销
// 2. 运行 `wire gen ./cmd/api` 生成
// 3. 这里描述的是生产组合（MySQL + Redis），memory驱动和MQ开关见main.go的手动组装

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	httpapi "github.com/xiebiao/bookreview/internal/interface/http"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/logger"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	mysql.NewDB,
	redis.NewClient,
	provideBookCache,
	wire.Bind(new(appbook.BookCache), new(*redis.BookCache)),
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	provideDispatcher,
	mysql.NewTxManager,
	mysql.NewBookRepository,
	mysql.NewReviewRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewRankBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewManageBookUseCase,
	appbook.NewAddReviewUseCase,
)

// interfaceSet 接口层依赖
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	handler.NewRankingPageHandler,
	provideGinEngine,
)

// provideLogger 从配置创建logger
func provideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideBookCache 创建图书缓存
func provideBookCache(cfg *config.Config, client *goredis.Client, log zerolog.Logger) *redis.BookCache {
	return redis.NewBookCache(client, cfg.Cache.BookTTL, redis.BreakerConfig{
		MaxFailures: cfg.Cache.BreakerMaxFailures,
		Timeout:     cfg.Cache.BreakerTimeout,
	}, log)
}

// provideDispatcher 创建图书事件分发器并订阅缓存失效
// 仓储依赖Dispatcher,订阅关系必须在仓储创建前建立
func provideDispatcher(cache *redis.BookCache, log zerolog.Logger) *book.Dispatcher {
	return book.NewDispatcher(
		book.ListenerFunc(countEvent),
		book.NewCacheInvalidator(cache, log),
	)
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	log zerolog.Logger,
	bookHandler *handler.BookHandler,
	rankingPageHandler *handler.RankingPageHandler,
	authMiddleware *middleware.AuthMiddleware,
) (*gin.Engine, error) {
	return httpapi.NewRouter(httpapi.RouterConfig{
		Mode:               cfg.Server.Mode,
		ServiceName:        cfg.Tracing.ServiceName,
		EnableDocs:         cfg.Server.Mode != "release",
		Logger:             log,
		BookHandler:        bookHandler,
		RankingPageHandler: rankingPageHandler,
		AuthMiddleware:     authMiddleware,
	})
}

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil
}
