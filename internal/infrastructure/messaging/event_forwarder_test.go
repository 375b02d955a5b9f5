package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

func TestEventForwarder_PublishesWithEventTypeAsRoutingKey(t *testing.T) {
	pub := new(mockPublisher)
	event := book.NewEvent(book.EventDeleted, 7)
	pub.On("Publish", mock.Anything, "book.deleted", event).Return(nil).Once()

	before := testutil.ToFloat64(metrics.MessagesPublishedTotal.WithLabelValues("book.deleted", metrics.ResultOK))
	NewEventForwarder(pub, zerolog.Nop()).HandleBookEvent(context.Background(), event)
	after := testutil.ToFloat64(metrics.MessagesPublishedTotal.WithLabelValues("book.deleted", metrics.ResultOK))

	pub.AssertExpectations(t)
	assert.Equal(t, 1.0, after-before)
}

func TestEventForwarder_FailureIsSwallowed(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, "book.updated", mock.Anything).Return(errors.New("channel closed"))

	before := testutil.ToFloat64(metrics.MessagesPublishedTotal.WithLabelValues("book.updated", metrics.ResultError))
	assert.NotPanics(t, func() {
		NewEventForwarder(pub, zerolog.Nop()).HandleBookEvent(context.Background(), book.NewEvent(book.EventUpdated, 1))
	})
	after := testutil.ToFloat64(metrics.MessagesPublishedTotal.WithLabelValues("book.updated", metrics.ResultError))

	assert.Equal(t, 1.0, after-before)
}

func TestEventForwarder_IgnoresCanceledRequestContext(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "book.updated", mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewEventForwarder(pub, zerolog.Nop()).HandleBookEvent(ctx, book.NewEvent(book.EventUpdated, 1))

	pub.AssertExpectations(t)
}
