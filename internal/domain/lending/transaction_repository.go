package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionDetail is a read model row for transaction listings, with the
// linked book's and member's salient fields denormalized for display
type TransactionDetail struct {
	ID          uuid.UUID         `json:"id"`
	BookID      uuid.UUID         `json:"book_id"`
	MemberID    uuid.UUID         `json:"member_id"`
	BookTitle   string            `json:"book_title"`
	BookAuthors string            `json:"book_authors"`
	MemberName  string            `json:"member_name"`
	MemberEmail string            `json:"member_email"`
	IssueDate   time.Time         `json:"issue_date"`
	ReturnDate  *time.Time        `json:"return_date,omitempty"`
	RentFee     decimal.Decimal   `json:"rent_fee"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TransactionRepository defines the interface for loan persistence
type TransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindIssued finds the open loan for the exact (book, member) pair,
	// or shared.ErrNotFound when none exists
	FindIssued(ctx context.Context, bookID, memberID uuid.UUID) (*Transaction, error)

	// FindAllDetailed lists transactions newest first with book and member
	// fields denormalized
	FindAllDetailed(ctx context.Context, filter shared.Filter) ([]TransactionDetail, error)

	// FindByMemberDetailed lists a member's transactions newest first
	FindByMemberDetailed(ctx context.Context, memberID uuid.UUID, filter shared.Filter) ([]TransactionDetail, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// SaveWithVersion updates a transaction only if the stored version matches
	SaveWithVersion(ctx context.Context, tx *Transaction) error

	// Count counts all transactions
	Count(ctx context.Context) (int64, error)

	// CountByMember counts a member's transactions
	CountByMember(ctx context.Context, memberID uuid.UUID) (int64, error)
}
