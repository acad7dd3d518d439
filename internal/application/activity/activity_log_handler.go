package activity

import (
	"context"

	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler writes a structured activity-log line for every domain
// event published on the bus. It subscribes as a catch-all, so events added
// by new contexts are logged without extra wiring.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// EventTypes returns nil so the handler receives all events
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle writes one log entry per event
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *lending.BookIssuedEvent:
		fields = append(fields,
			zap.String("book_id", e.BookID.String()),
			zap.String("member_id", e.MemberID.String()),
		)
	case *lending.BookReturnedEvent:
		fields = append(fields,
			zap.String("book_id", e.BookID.String()),
			zap.String("member_id", e.MemberID.String()),
			zap.String("rent_fee", e.RentFee.String()),
		)
	case *member.MemberDebtChangedEvent:
		fields = append(fields,
			zap.String("member_id", e.MemberID.String()),
			zap.String("fee", e.Fee.String()),
			zap.String("new_debt", e.NewDebt.String()),
		)
	case *catalog.BookStockChangedEvent:
		fields = append(fields,
			zap.String("book_id", e.BookID.String()),
			zap.Int("delta", e.Delta),
			zap.Int("new_stock", e.NewStock),
		)
	case *catalog.BookCreatedEvent:
		fields = append(fields,
			zap.String("title", e.Title),
			zap.String("authors", e.Authors),
		)
	case *member.MemberRegisteredEvent:
		fields = append(fields,
			zap.String("name", e.Name),
			zap.String("email", e.Email),
		)
	}

	h.logger.Info(event.EventType(), fields...)
	return nil
}

// Ensure ActivityLogHandler implements shared.EventHandler
var _ shared.EventHandler = (*ActivityLogHandler)(nil)
