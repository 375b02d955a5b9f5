package book

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "book:7", CacheKey(7))
}

func TestCacheInvalidator_RemovesKeyOnUpdateAndDelete(t *testing.T) {
	for _, typ := range []EventType{EventUpdated, EventDeleted} {
		t.Run(string(typ), func(t *testing.T) {
			cache := new(mockCache)
			cache.On("Remove", mock.Anything, "book:7").Return(nil).Once()

			NewCacheInvalidator(cache, zerolog.Nop()).HandleBookEvent(context.Background(), NewEvent(typ, 7))

			cache.AssertExpectations(t)
			cache.AssertNumberOfCalls(t, "Remove", 1)
		})
	}
}

func TestCacheInvalidator_IgnoresOtherEvents(t *testing.T) {
	cache := new(mockCache)

	NewCacheInvalidator(cache, zerolog.Nop()).HandleBookEvent(context.Background(), NewEvent("book.created", 7))

	cache.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestCacheInvalidator_SwallowsCacheError(t *testing.T) {
	cache := new(mockCache)
	cache.On("Remove", mock.Anything, "book:3").Return(errors.New("connection refused"))

	assert.NotPanics(t, func() {
		NewCacheInvalidator(cache, zerolog.Nop()).HandleBookEvent(context.Background(), NewEvent(EventDeleted, 3))
	})
	cache.AssertExpectations(t)
}

func TestDispatcher_PublishInSubscriptionOrder(t *testing.T) {
	var got []string
	d := NewDispatcher(ListenerFunc(func(context.Context, Event) { got = append(got, "first") }))
	d.Subscribe(ListenerFunc(func(_ context.Context, e Event) { got = append(got, "second:"+string(e.Type)) }))

	d.Publish(context.Background(), NewEvent(EventUpdated, 1))

	assert.Equal(t, []string{"first", "second:book.updated"}, got)
}

func TestDispatcher_NilIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Publish(context.Background(), NewEvent(EventDeleted, 1)) })
}
