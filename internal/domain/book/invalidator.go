package book

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// CacheKey 图书缓存key,格式:book:{id}
func CacheKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

// Cache 缓存删除接口
// Remove删除不存在的key必须是no-op,不能返回错误
type Cache interface {
	Remove(ctx context.Context, key string) error
}

// CacheInvalidator 图书变更后删除缓存
// 设计说明:
// 1. 订阅EventUpdated/EventDeleted,删除book:{id}
// 2. 尽力而为:缓存不可用时只记录日志,不影响触发事件的更新/删除操作
// 3. 单次删除,不需要加锁
type CacheInvalidator struct {
	cache Cache
	log   zerolog.Logger
}

// NewCacheInvalidator 创建缓存失效订阅者
func NewCacheInvalidator(cache Cache, log zerolog.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		cache: cache,
		log:   log.With().Str("component", "book_cache_invalidator").Logger(),
	}
}

// HandleBookEvent 实现Listener
func (i *CacheInvalidator) HandleBookEvent(ctx context.Context, event Event) {
	if event.Type != EventUpdated && event.Type != EventDeleted {
		return
	}

	key := CacheKey(event.BookID)
	if err := i.cache.Remove(ctx, key); err != nil {
		i.log.Warn().
			Err(err).
			Str("key", key).
			Str("event", string(event.Type)).
			Msg("删除图书缓存失败")
		return
	}

	i.log.Debug().Str("key", key).Str("event", string(event.Type)).Msg("图书缓存已删除")
}
