// Package messaging 把图书事件转发到消息队列
package messaging

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// publishTimeout 单条消息的发布超时
const publishTimeout = 3 * time.Second

// Publisher 消息发布接口(pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventForwarder 图书事件转发器
// 路由键即事件类型(book.updated / book.deleted),下游按路由键绑定队列;
// 发布失败只记录日志,不影响图书的更新/删除
type EventForwarder struct {
	publisher Publisher
	log       zerolog.Logger
}

// NewEventForwarder 创建事件转发器
func NewEventForwarder(publisher Publisher, log zerolog.Logger) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		log:       log.With().Str("component", "book_event_forwarder").Logger(),
	}
}

// HandleBookEvent 实现book.Listener
func (f *EventForwarder) HandleBookEvent(ctx context.Context, event book.Event) {
	routingKey := string(event.Type)

	// 请求取消后仍然要把事件发出去
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := f.publisher.Publish(ctx, routingKey, event); err != nil {
		metrics.MessagesPublishedTotal.WithLabelValues(routingKey, metrics.ResultError).Inc()
		f.log.Error().
			Err(err).
			Str("routing_key", routingKey).
			Uint("book_id", event.BookID).
			Msg("图书事件发布失败")
		return
	}

	metrics.MessagesPublishedTotal.WithLabelValues(routingKey, metrics.ResultOK).Inc()
	f.log.Debug().Str("routing_key", routingKey).Uint("book_id", event.BookID).Msg("图书事件已发布")
}
