package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants
const (
	EventTypeBookIssued   = "BookIssued"
	EventTypeBookReturned = "BookReturned"
)

// BookIssuedEvent is published when a loan is opened
type BookIssuedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	BookID        uuid.UUID `json:"book_id"`
	MemberID      uuid.UUID `json:"member_id"`
	IssueDate     time.Time `json:"issue_date"`
}

// NewBookIssuedEvent creates a new BookIssuedEvent
func NewBookIssuedEvent(tx *Transaction) *BookIssuedEvent {
	return &BookIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookIssued, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		BookID:          tx.BookID,
		MemberID:        tx.MemberID,
		IssueDate:       tx.IssueDate,
	}
}

// BookReturnedEvent is published when a loan is closed
type BookReturnedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	BookID        uuid.UUID       `json:"book_id"`
	MemberID      uuid.UUID       `json:"member_id"`
	ReturnDate    time.Time       `json:"return_date"`
	RentFee       decimal.Decimal `json:"rent_fee"`
}

// NewBookReturnedEvent creates a new BookReturnedEvent
func NewBookReturnedEvent(tx *Transaction) *BookReturnedEvent {
	returnDate := time.Now()
	if tx.ReturnDate != nil {
		returnDate = *tx.ReturnDate
	}
	return &BookReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookReturned, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		BookID:          tx.BookID,
		MemberID:        tx.MemberID,
		ReturnDate:      returnDate,
		RentFee:         tx.RentFee,
	}
}
