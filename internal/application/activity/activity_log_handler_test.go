package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestActivityLogHandler_LogsIssuedLoan(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewActivityLogHandler(zap.New(core))

	tx, err := lending.NewTransaction(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	events := tx.GetDomainEvents()
	require.Len(t, events, 1)

	require.NoError(t, h.Handle(context.Background(), events[0]))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, lending.EventTypeBookIssued, entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, tx.BookID.String(), fields["book_id"])
	assert.Equal(t, tx.MemberID.String(), fields["member_id"])
	assert.Equal(t, lending.AggregateTypeTransaction, fields["aggregate_type"])
}

func TestActivityLogHandler_ReceivesAllBusEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogHandler(zap.New(core)))

	m, err := member.NewMember("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	tx, err := lending.NewTransaction(uuid.New(), m.ID, time.Now())
	require.NoError(t, err)

	all := append(m.GetDomainEvents(), tx.GetDomainEvents()...)
	require.NoError(t, bus.Publish(context.Background(), all...))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, member.EventTypeMemberRegistered, logs.All()[0].Message)
	assert.Equal(t, lending.EventTypeBookIssued, logs.All()[1].Message)
}
