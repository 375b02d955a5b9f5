package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// breakerName 熔断器名称(指标label)
const breakerName = "book_cache"

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	MaxFailures uint32        // 连续失败次数达到该值后熔断
	Timeout     time.Duration // 熔断后多久进入半开状态
}

// BookCache 图书缓存(book:{id} → Book JSON)
// 设计说明:
// 1. 只缓存图书实体,书评统计每次实时计算,新增书评不会让缓存过期
// 2. 所有Redis调用经过熔断器:Redis故障时快速失败,不拖慢请求
// 3. 缓存未命中返回(nil, nil),不算失败
type BookCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     zerolog.Logger
}

// NewBookCache 创建图书缓存
func NewBookCache(client redis.Cmdable, ttl time.Duration, cfg BreakerConfig, log zerolog.Logger) *BookCache {
	log = log.With().Str("component", breakerName).Logger()

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("熔断器状态变化")
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breakerName}, float64(gobreaker.StateClosed))

	return &BookCache{
		client:  client,
		ttl:     ttl,
		breaker: breaker,
		log:     log,
	}
}

// GetBook 读取缓存
func (c *BookCache) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	key := book.CacheKey(id)
	data, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		metrics.CacheOp("get", resultOf(err))
		return nil, c.wrap(err, "读取图书缓存失败")
	}
	if data == nil {
		metrics.CacheOp("get", metrics.ResultMiss)
		return nil, nil
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		// 格式不兼容的旧数据按未命中处理
		c.log.Warn().Err(err).Str("key", key).Msg("图书缓存反序列化失败")
		metrics.CacheOp("get", metrics.ResultMiss)
		return nil, nil
	}
	metrics.CacheOp("get", metrics.ResultHit)
	return &b, nil
}

// SetBook 写入缓存
func (c *BookCache) SetBook(ctx context.Context, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return apperrors.Wrap(err, "图书序列化失败")
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, book.CacheKey(b.ID), data, c.ttl).Err()
	})
	if err != nil {
		metrics.CacheOp("set", resultOf(err))
		return c.wrap(err, "写入图书缓存失败")
	}
	metrics.CacheOp("set", metrics.ResultOK)
	return nil
}

// Remove 删除缓存,key不存在时是no-op
func (c *BookCache) Remove(ctx context.Context, key string) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, key).Err()
	})
	if err != nil {
		metrics.CacheOp("remove", resultOf(err))
		return c.wrap(err, "删除图书缓存失败")
	}
	metrics.CacheOp("remove", metrics.ResultOK)
	return nil
}

// State 熔断器当前状态
func (c *BookCache) State() gobreaker.State {
	return c.breaker.State()
}

func (c *BookCache) wrap(err error, msg string) error {
	return apperrors.WithCode(err, apperrors.ErrCodeRedisError, msg)
}

// resultOf 熔断拒绝与Redis错误分开统计
func resultOf(err error) string {
	if isRejected(err) {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}

func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
