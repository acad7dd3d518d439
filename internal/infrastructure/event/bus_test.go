package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New()),
	}
}

func TestInMemoryEventBus(t *testing.T) {
	t.Run("should deliver events to matching handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		issued := &recordingHandler{types: []string{"lending.book_issued"}}
		returned := &recordingHandler{types: []string{"lending.book_returned"}}
		bus.Subscribe(issued)
		bus.Subscribe(returned)

		err := bus.Publish(context.Background(), newTestEvent("lending.book_issued"))

		require.NoError(t, err)
		assert.Len(t, issued.received, 1)
		assert.Empty(t, returned.received)
	})

	t.Run("should deliver all events to catch-all handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		catchAll := &recordingHandler{}
		bus.Subscribe(catchAll)

		err := bus.Publish(context.Background(),
			newTestEvent("catalog.book_created"),
			newTestEvent("member.registered"),
		)

		require.NoError(t, err)
		assert.Len(t, catchAll.received, 2)
	})

	t.Run("should continue after a failing handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"catalog.book_created"}, fail: true}
		healthy := &recordingHandler{types: []string{"catalog.book_created"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newTestEvent("catalog.book_created"))

		require.NoError(t, err)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("should survive a panicking handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"catalog.book_created"}, panics: true}
		healthy := &recordingHandler{types: []string{"catalog.book_created"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("catalog.book_created"))
		})
		assert.Len(t, healthy.received, 1)
	})
}
