package importer

import (
	"context"
	"fmt"

	appcatalog "github.com/librarian/backend/internal/application/catalog"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/integration"
	"github.com/librarian/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImportService bulk-imports books from an external metadata catalog.
// The external API serves fixed-size pages; enough pages are fetched to cover
// the requested count, and records whose external identifier already exists
// locally are skipped.
type ImportService struct {
	provider integration.BookProvider
	bookRepo catalog.BookRepository
	logger   *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(provider integration.BookProvider, bookRepo catalog.BookRepository, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		provider: provider,
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// Import fetches pages from the external catalog until the requested count is
// covered. An upstream failure before anything was imported is an error; a
// failure partway through returns the books imported so far with a warning.
func (s *ImportService) Import(ctx context.Context, req ImportBooksRequest) (*ImportBooksResponse, error) {
	if req.Pages < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Number of books to import must be at least 1")
	}

	query := integration.BookQuery{
		Title:     req.Title,
		Authors:   req.Authors,
		ISBN:      req.ISBN,
		Publisher: req.Publisher,
	}

	totalPages := (req.Pages + integration.PageSize - 1) / integration.PageSize

	imported := make([]appcatalog.BookResponse, 0, req.Pages)
	var warning string

	for page := 1; page <= totalPages; page++ {
		records, err := s.provider.FetchPage(ctx, query, page)
		if err != nil {
			if len(imported) == 0 {
				return nil, err
			}
			// Keep what is already committed and surface the failure
			warning = fmt.Sprintf("import stopped at page %d: %v", page, err)
			s.logger.Warn("Import aborted partway",
				zap.Int("page", page),
				zap.Int("imported", len(imported)),
				zap.Error(err),
			)
			break
		}
		if len(records) == 0 {
			break
		}

		created, err := s.importPage(ctx, records, req.Pages-len(imported))
		if err != nil {
			return nil, err
		}
		imported = append(imported, created...)

		if len(imported) >= req.Pages {
			break
		}
	}

	s.logger.Info("Import completed",
		zap.Int("requested", req.Pages),
		zap.Int("imported", len(imported)),
	)

	return &ImportBooksResponse{
		Imported: len(imported),
		Books:    imported,
		Warning:  warning,
	}, nil
}

// importPage creates catalog entries for one page of records, skipping those
// whose external identifier is already present. Existence is checked once per
// page in a single batch query.
func (s *ImportService) importPage(ctx context.Context, records []integration.ExternalBook, remaining int) ([]appcatalog.BookResponse, error) {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.ExternalID != "" {
			ids = append(ids, rec.ExternalID)
		}
	}
	existing, err := s.bookRepo.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	created := make([]appcatalog.BookResponse, 0, len(records))
	for _, rec := range records {
		if remaining <= 0 {
			break
		}
		if rec.ExternalID != "" && existing[rec.ExternalID] {
			continue
		}

		book, err := catalog.NewBook(rec.Title, rec.Authors)
		if err != nil {
			s.logger.Warn("Skipping malformed external record",
				zap.String("external_id", rec.ExternalID),
				zap.Error(err),
			)
			continue
		}
		book.SetExternalID(rec.ExternalID)
		book.ISBN = rec.ISBN
		book.ISBN13 = rec.ISBN13
		book.Publisher = rec.Publisher
		book.NumPages = rec.NumPages
		book.PublicationDate = rec.PublicationDate
		if rec.LanguageCode != "" {
			book.LanguageCode = rec.LanguageCode
		}
		if rec.AverageRating != "" {
			book.AverageRating = rec.AverageRating
		}
		if rec.RatingsCount != "" {
			book.RatingsCount = rec.RatingsCount
		}

		if err := s.bookRepo.Save(ctx, book); err != nil {
			return nil, err
		}
		book.ClearDomainEvents()

		created = append(created, appcatalog.ToBookResponse(book))
		remaining--
	}

	return created, nil
}
