package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
)

// BookRepository defines the interface for book persistence
type BookRepository interface {
	// FindByID finds a book by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)

	// FindByExternalID finds a book by its external catalog identifier
	FindByExternalID(ctx context.Context, externalID string) (*Book, error)

	// FindAll finds all books matching the filter, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Book, error)

	// Search finds books whose title or authors match the query,
	// most relevant first
	Search(ctx context.Context, query string, filter shared.Filter) ([]Book, error)

	// ExistingExternalIDs returns which of the given external identifiers
	// are already present in the catalog
	ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error)

	// Save creates or updates a book
	Save(ctx context.Context, book *Book) error

	// SaveWithVersion updates a book only if the stored version matches the
	// one the aggregate was loaded at; returns a concurrency conflict otherwise
	SaveWithVersion(ctx context.Context, book *Book) error

	// Delete deletes a book
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts books matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountSearch counts books matching the search query
	CountSearch(ctx context.Context, query string) (int64, error)

	// ExistsByExternalID checks if a book with the given external ID exists
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
}
