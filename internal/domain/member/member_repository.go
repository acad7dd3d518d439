package member

import (
	"context"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
)

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	// FindByID finds a member by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByEmail finds a member by normalized email
	FindByEmail(ctx context.Context, email string) (*Member, error)

	// FindAll finds all members matching the filter, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Member, error)

	// Search finds members whose name or email contains the query,
	// case-insensitive, newest first
	Search(ctx context.Context, query string, filter shared.Filter) ([]Member, error)

	// Save creates or updates a member
	Save(ctx context.Context, m *Member) error

	// SaveWithVersion updates a member only if the stored version matches the
	// one the aggregate was loaded at; returns a concurrency conflict otherwise
	SaveWithVersion(ctx context.Context, m *Member) error

	// Delete deletes a member
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts members matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountSearch counts members matching the search query
	CountSearch(ctx context.Context, query string) (int64, error)

	// ExistsByEmail checks if a member with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
