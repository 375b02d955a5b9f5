package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/messaging"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	httpapi "github.com/xiebiao/bookreview/internal/interface/http"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/logger"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// shutdownTimeout 优雅关闭的最长等待时间
const shutdownTimeout = 10 * time.Second

// @title           书评排行服务API
// @version         1.0
// @description     图书、书评与排行榜
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	appLog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	log.Logger = appLog

	if err := run(cfg, appLog); err != nil {
		appLog.Fatal().Err(err).Msg("服务异常退出")
	}
}

// run 组装依赖并启动HTTP服务,收到SIGINT/SIGTERM后优雅关闭
// 依赖注入链:Repository ← Service ← UseCase ← Handler
func run(cfg *config.Config, appLog zerolog.Logger) error {
	appLog.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Bool("cache", cfg.Cache.Enabled).
		Bool("mq", cfg.MQ.Enabled).
		Msg("配置加载成功")

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer shutdownTracer(context.Background())

	// 图书事件:更新/删除后由仓储发布
	dispatcher := book.NewDispatcher(book.ListenerFunc(countEvent))

	// 仓储层
	var (
		bookRepo   book.Repository
		reviewRepo book.ReviewRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		bookRepo = memory.NewBookRepository(store, dispatcher)
		reviewRepo = memory.NewReviewRepository(store)
	default:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("初始化数据库失败: %w", err)
		}
		bookRepo = mysql.NewBookRepository(db, dispatcher)
		reviewRepo = mysql.NewReviewRepository(db, mysql.NewTxManager(db))
	}

	// 缓存:book:{id},更新/删除后由CacheInvalidator删除
	var bookCache appbook.BookCache
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("初始化Redis失败: %w", err)
		}
		defer redisClient.Close()

		cache := redis.NewBookCache(redisClient, cfg.Cache.BookTTL, redis.BreakerConfig{
			MaxFailures: cfg.Cache.BreakerMaxFailures,
			Timeout:     cfg.Cache.BreakerTimeout,
		}, appLog)
		dispatcher.Subscribe(book.NewCacheInvalidator(cache, appLog))
		bookCache = cache
	}

	// 事件转发到RabbitMQ
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
		if err != nil {
			return fmt.Errorf("初始化消息队列失败: %w", err)
		}
		defer publisher.Close()
		dispatcher.Subscribe(messaging.NewEventForwarder(publisher, appLog))
	}

	// 领域层、应用层
	bookService := book.NewService(bookRepo, reviewRepo)
	rankBooks := appbook.NewRankBooksUseCase(bookService)

	// 接口层
	router, err := httpapi.NewRouter(httpapi.RouterConfig{
		Mode:        cfg.Server.Mode,
		ServiceName: cfg.Tracing.ServiceName,
		EnableDocs:  cfg.Server.Mode != "release",
		Logger:      appLog,
		BookHandler: handler.NewBookHandler(
			rankBooks,
			appbook.NewGetBookUseCase(bookService, bookCache),
			appbook.NewManageBookUseCase(bookService),
			appbook.NewAddReviewUseCase(bookService),
		),
		RankingPageHandler: handler.NewRankingPageHandler(rankBooks),
		AuthMiddleware: middleware.NewAuthMiddleware(
			jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire),
		),
	})
	if err != nil {
		return fmt.Errorf("初始化路由失败: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info().Str("addr", srv.Addr).Msg("服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务失败: %w", err)
	case <-ctx.Done():
	}

	appLog.Info().Msg("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	appLog.Info().Msg("服务已关闭")
	return nil
}

// countEvent 图书事件计数
func countEvent(_ context.Context, event book.Event) {
	metrics.IncCounterVec(metrics.BookEventsTotal, map[string]string{"type": string(event.Type)})
}
