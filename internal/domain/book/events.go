package book

import (
	"context"
	"sync"
	"time"
)

// EventType 图书事件类型
type EventType string

const (
	EventUpdated EventType = "book.updated"
	EventDeleted EventType = "book.deleted"
)

// Event 图书变更事件
type Event struct {
	Type       EventType `json:"type"`
	BookID     uint      `json:"book_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent 创建事件
func NewEvent(eventType EventType, bookID uint) Event {
	return Event{Type: eventType, BookID: bookID, OccurredAt: time.Now()}
}

// Listener 图书事件订阅者
// 实现方不应返回错误:事件发布发生在写操作成功之后,订阅者失败不能影响写操作
type Listener interface {
	HandleBookEvent(ctx context.Context, event Event)
}

// ListenerFunc 函数适配器
type ListenerFunc func(ctx context.Context, event Event)

// HandleBookEvent 实现Listener
func (f ListenerFunc) HandleBookEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// Dispatcher 图书事件分发器
// 设计说明:
// 1. 订阅关系在启动时显式注册(Subscribe),没有隐式的全局钩子
// 2. Publish同步、按订阅顺序调用所有订阅者
// 3. nil Dispatcher可以安全调用Publish(仓储不需要关心是否有人订阅)
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewDispatcher 创建分发器
func NewDispatcher(listeners ...Listener) *Dispatcher {
	return &Dispatcher{listeners: listeners}
}

// Subscribe 注册订阅者
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Publish 发布事件
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.RUnlock()

	for _, l := range listeners {
		l.HandleBookEvent(ctx, event)
	}
}
