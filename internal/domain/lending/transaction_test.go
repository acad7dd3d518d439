package lending

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	bookID := uuid.New()
	memberID := uuid.New()

	t.Run("creates issued transaction", func(t *testing.T) {
		now := time.Now()
		tx, err := NewTransaction(bookID, memberID, now)
		require.NoError(t, err)

		assert.Equal(t, bookID, tx.BookID)
		assert.Equal(t, memberID, tx.MemberID)
		assert.Equal(t, StatusIssued, tx.Status)
		assert.Equal(t, now, tx.IssueDate)
		assert.Nil(t, tx.ReturnDate)
		assert.True(t, tx.RentFee.IsZero())

		events := tx.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBookIssued, events[0].EventType())
	})

	t.Run("defaults issue date to now", func(t *testing.T) {
		tx, err := NewTransaction(bookID, memberID, time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), tx.IssueDate, time.Second)
	})

	t.Run("fails without book ID", func(t *testing.T) {
		_, err := NewTransaction(uuid.Nil, memberID, time.Now())
		require.Error(t, err)
	})

	t.Run("fails without member ID", func(t *testing.T) {
		_, err := NewTransaction(bookID, uuid.Nil, time.Now())
		require.Error(t, err)
	})
}

func TestTransaction_MarkReturned(t *testing.T) {
	t.Run("closes the loan once", func(t *testing.T) {
		tx, _ := NewTransaction(uuid.New(), uuid.New(), time.Now())
		tx.ClearDomainEvents()

		returnedAt := time.Now()
		fee := decimal.NewFromInt(20)
		require.NoError(t, tx.MarkReturned(returnedAt, fee))

		assert.Equal(t, StatusReturned, tx.Status)
		require.NotNil(t, tx.ReturnDate)
		assert.Equal(t, returnedAt, *tx.ReturnDate)
		assert.True(t, tx.RentFee.Equal(fee))
		assert.Equal(t, 2, tx.GetVersion())

		events := tx.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBookReturned, events[0].EventType())
	})

	t.Run("second return fails without state change", func(t *testing.T) {
		tx, _ := NewTransaction(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, tx.MarkReturned(time.Now(), decimal.NewFromInt(10)))

		err := tx.MarkReturned(time.Now(), decimal.NewFromInt(99))
		require.Error(t, err)
		assert.Equal(t, ErrAlreadyReturned, err)
		assert.True(t, tx.RentFee.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		tx, _ := NewTransaction(uuid.New(), uuid.New(), time.Now())
		require.Error(t, tx.MarkReturned(time.Now(), decimal.NewFromInt(-5)))
		assert.Equal(t, StatusIssued, tx.Status)
	})
}

func TestDaysBorrowed(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"same instant", 0, 0},
		{"one hour rounds up", time.Hour, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"25 hours rounds up to two", 25 * time.Hour, 2},
		{"three full days", 72 * time.Hour, 3},
		{"negative elapsed clamps to zero", -6 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBorrowed(base, base.Add(tt.elapsed)))
		})
	}
}

func TestComputeRentFee(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(10)

	t.Run("zero days is free", func(t *testing.T) {
		fee := ComputeRentFee(base, base, rate)
		assert.True(t, fee.IsZero())
	})

	t.Run("25 hours charges two days", func(t *testing.T) {
		fee := ComputeRentFee(base, base.Add(25*time.Hour), rate)
		assert.True(t, fee.Equal(decimal.NewFromInt(20)))
	})

	t.Run("one day at the rate", func(t *testing.T) {
		fee := ComputeRentFee(base, base.Add(24*time.Hour), rate)
		assert.True(t, fee.Equal(decimal.NewFromInt(10)))
	})
}
