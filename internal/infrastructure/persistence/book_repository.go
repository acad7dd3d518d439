package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bookSearchVector is the weighted document used for relevance-ranked
// catalog search. Title matches rank above author matches.
const bookSearchVector = "setweight(to_tsvector('simple', coalesce(title, '')), 'A') || setweight(to_tsvector('simple', coalesce(authors, '')), 'B')"

// GormBookRepository implements BookRepository using GORM
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository creates a new GormBookRepository
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// FindByID finds a book by its ID
func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	var book catalog.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindByExternalID finds a book by its external catalog identifier
func (r *GormBookRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Book, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	var book catalog.Book
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindAll finds all books matching the filter
func (r *GormBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	var books []catalog.Book
	query := r.db.WithContext(ctx).Model(&catalog.Book{})
	query = r.applySearch(query, filter.Search)
	query = applyOrderAndPage(query, filter)

	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Search finds books whose title or authors match the query, ranked by
// relevance with ties broken by newest first
func (r *GormBookRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]catalog.Book, error) {
	var books []catalog.Book
	rank := clause.OrderBy{
		Expression: clause.Expr{
			SQL:  "ts_rank(" + bookSearchVector + ", plainto_tsquery('simple', ?)) DESC, created_at DESC",
			Vars: []interface{}{query},
		},
	}

	q := r.db.WithContext(ctx).
		Model(&catalog.Book{}).
		Where(bookSearchVector+" @@ plainto_tsquery('simple', ?)", query).
		Order(rank).
		Offset(filter.Offset()).
		Limit(filter.Limit)

	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// CountSearch counts books matching the search query
func (r *GormBookRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Book{}).
		Where(bookSearchVector+" @@ plainto_tsquery('simple', ?)", query).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistingExternalIDs returns which of the given external identifiers are
// already present in the catalog
func (r *GormBookRepository) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(externalIDs))
	if len(externalIDs) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).
		Model(&catalog.Book{}).
		Where("external_id IN ?", externalIDs).
		Pluck("external_id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// Save creates or updates a book
func (r *GormBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Book with this external ID already exists")
		}
		return err
	}
	return nil
}

// SaveWithVersion saves with optimistic locking (checks version)
func (r *GormBookRepository) SaveWithVersion(ctx context.Context, book *catalog.Book) error {
	result := r.db.WithContext(ctx).
		Model(book).
		Where("id = ? AND version = ?", book.ID, book.Version-1).
		Updates(map[string]interface{}{
			"title":        book.Title,
			"authors":      book.Authors,
			"isbn":         book.ISBN,
			"isbn13":       book.ISBN13,
			"publisher":    book.Publisher,
			"num_pages":    book.NumPages,
			"stock":        book.Stock,
			"rent_per_day": book.RentPerDay,
			"version":      book.Version,
			"updated_at":   book.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a book
func (r *GormBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts books matching the filter
func (r *GormBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Book{}), filter.Search)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByExternalID checks if a book with the given external ID exists
func (r *GormBookRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Book{}).
		Where("external_id = ?", externalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applySearch adds a substring match over title and authors
func (r *GormBookRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("title ILIKE ? OR authors ILIKE ?", pattern, pattern)
}

// applyOrderAndPage applies ordering and pagination from the filter
func applyOrderAndPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}

	return query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit)
}

// Ensure GormBookRepository implements BookRepository
var _ catalog.BookRepository = (*GormBookRepository)(nil)
