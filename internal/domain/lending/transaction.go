package lending

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a loan
type TransactionStatus string

const (
	StatusIssued   TransactionStatus = "issued"
	StatusReturned TransactionStatus = "returned"
)

// Transaction is a single loan record spanning issue to return.
// It is the only place the book-member relationship for a loan is recorded;
// the transition from issued to returned is one-way.
type Transaction struct {
	shared.BaseAggregateRoot
	BookID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	MemberID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	IssueDate  time.Time         `gorm:"not null"`
	ReturnDate *time.Time        `gorm:""`
	RentFee    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Status     TransactionStatus `gorm:"type:varchar(20);not null;default:'issued'"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new loan in state issued
func NewTransaction(bookID, memberID uuid.UUID, issueDate time.Time) (*Transaction, error) {
	if bookID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BOOK", "Book ID is required")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID is required")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BookID:            bookID,
		MemberID:          memberID,
		IssueDate:         issueDate,
		RentFee:           decimal.Zero,
		Status:            StatusIssued,
	}

	tx.AddDomainEvent(NewBookIssuedEvent(tx))

	return tx, nil
}

// IsReturned reports whether the loan has been closed
func (t *Transaction) IsReturned() bool {
	return t.Status == StatusReturned
}

// MarkReturned closes the loan, fixing the return date and rent fee.
// The transition is one-way; calling it on a returned loan fails.
func (t *Transaction) MarkReturned(returnDate time.Time, fee decimal.Decimal) error {
	if t.IsReturned() {
		return ErrAlreadyReturned
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Rent fee cannot be negative")
	}

	t.ReturnDate = &returnDate
	t.RentFee = fee
	t.Status = StatusReturned
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewBookReturnedEvent(t))
	return nil
}

// DaysBorrowed computes the chargeable number of days between issue and
// return: the ceiling of the elapsed time in days, never negative. A partial
// day counts as a full day; exactly zero elapsed time counts as zero days.
func DaysBorrowed(issueDate, returnDate time.Time) int {
	elapsed := returnDate.Sub(issueDate)
	days := int(math.Ceil(elapsed.Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days
}

// ComputeRentFee computes the fee for a loan returned at the given time
func ComputeRentFee(issueDate, returnDate time.Time, rentPerDay decimal.Decimal) decimal.Decimal {
	return rentPerDay.Mul(decimal.NewFromInt(int64(DaysBorrowed(issueDate, returnDate))))
}

// ErrAlreadyReturned is returned on a second return of the same loan
var ErrAlreadyReturned = shared.NewDomainError("ALREADY_RETURNED", "This book has already been returned")

// ErrAlreadyIssued is returned when the member already holds an open loan
// for the same book
var ErrAlreadyIssued = shared.NewDomainError("ALREADY_ISSUED", "Member has already issued this book")
