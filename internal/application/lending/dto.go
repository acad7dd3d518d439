package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/shopspring/decimal"
)

// IssueBookRequest represents a request to issue a book to a member
type IssueBookRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	MemberID uuid.UUID `json:"member_id" binding:"required"`
}

// ReturnBookRequest represents a request to close a loan.
// ReturnDate defaults to the current time when omitted.
type ReturnBookRequest struct {
	ReturnDate *time.Time `json:"return_date"`
}

// TransactionResponse represents a loan in API responses
type TransactionResponse struct {
	ID         uuid.UUID       `json:"id"`
	BookID     uuid.UUID       `json:"book_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	IssueDate  time.Time       `json:"issue_date"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	RentFee    decimal.Decimal `json:"rent_fee"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ReturnBookResponse carries the closed loan together with the fee charged
// and the member's resulting debt
type ReturnBookResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	DaysBorrowed    int                 `json:"days_borrowed"`
	RentFee         decimal.Decimal     `json:"rent_fee"`
	OutstandingDebt decimal.Decimal     `json:"outstanding_debt"`
}

// ToTransactionResponse converts a loan aggregate to its API representation
func ToTransactionResponse(t *lending.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         t.ID,
		BookID:     t.BookID,
		MemberID:   t.MemberID,
		IssueDate:  t.IssueDate,
		ReturnDate: t.ReturnDate,
		RentFee:    t.RentFee,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
