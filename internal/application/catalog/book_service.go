package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/shared"
)

// BookService handles catalog business operations
type BookService struct {
	bookRepo catalog.BookRepository
	eventBus shared.EventPublisher
}

// NewBookService creates a new BookService
func NewBookService(bookRepo catalog.BookRepository, eventBus shared.EventPublisher) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		eventBus: eventBus,
	}
}

// Create creates a new book.
// Falsy numeric inputs fall back to the catalog defaults (stock 1, rent 10).
func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	if req.ExternalID != "" {
		exists, err := s.bookRepo.ExistsByExternalID(ctx, req.ExternalID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Book with this external ID already exists")
		}
	}

	book, err := catalog.NewBook(req.Title, req.Authors.Joined())
	if err != nil {
		return nil, err
	}

	if req.ExternalID != "" {
		book.SetExternalID(req.ExternalID)
	}
	book.ISBN = req.ISBN
	book.ISBN13 = req.ISBN13
	book.Publisher = req.Publisher
	book.NumPages = int(req.NumPages)
	book.PublicationDate = req.PublicationDate
	if req.LanguageCode != "" {
		book.LanguageCode = req.LanguageCode
	}
	if req.AverageRating != "" {
		book.AverageRating = req.AverageRating
	}
	if req.RatingsCount != "" {
		book.RatingsCount = req.RatingsCount
	}

	if req.Stock != nil && *req.Stock > 0 {
		if err := book.SetStock(int(*req.Stock)); err != nil {
			return nil, err
		}
	}
	if req.RentPerDay != nil && req.RentPerDay.IsPositive() {
		if err := book.SetRentPerDay(*req.RentPerDay); err != nil {
			return nil, err
		}
	}

	if err := s.bookRepo.Save(ctx, book); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, book)

	response := ToBookResponse(book)
	return &response, nil
}

// GetByID retrieves a book by ID
func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*BookResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBookResponse(book)
	return &response, nil
}

// List retrieves a page of books, newest first
func (s *BookService) List(ctx context.Context, page, limit int) (*shared.Paginated[BookResponse], error) {
	filter := listFilter(page, limit)

	books, err := s.bookRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.bookRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToBookResponses(books), total, filter.Page, filter.Limit)
	return &result, nil
}

// Search retrieves a page of books matching the query, most relevant first
func (s *BookService) Search(ctx context.Context, query string, page, limit int) (*shared.Paginated[BookResponse], error) {
	if query == "" {
		return nil, shared.NewDomainError("INVALID_QUERY", "Search query is required")
	}
	filter := listFilter(page, limit)

	books, err := s.bookRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.bookRepo.CountSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToBookResponses(books), total, filter.Page, filter.Limit)
	return &result, nil
}

// Update updates a book's editable fields
func (s *BookService) Update(ctx context.Context, id uuid.UUID, req UpdateBookRequest) (*BookResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := book.Title
	if req.Title != nil {
		title = *req.Title
	}
	authors := book.Authors
	if len(req.Authors) > 0 {
		authors = req.Authors.Joined()
	}
	if err := book.Update(title, authors); err != nil {
		return nil, err
	}

	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.ISBN13 != nil {
		book.ISBN13 = *req.ISBN13
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.NumPages != nil {
		book.NumPages = int(*req.NumPages)
	}
	if req.Stock != nil {
		if err := book.SetStock(int(*req.Stock)); err != nil {
			return nil, err
		}
	}
	if req.RentPerDay != nil {
		if err := book.SetRentPerDay(*req.RentPerDay); err != nil {
			return nil, err
		}
	}

	if err := s.bookRepo.SaveWithVersion(ctx, book); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, book)

	response := ToBookResponse(book)
	return &response, nil
}

// Delete deletes a book from the catalog
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bookRepo.Delete(ctx, id)
}

func (s *BookService) publishEvents(ctx context.Context, book *catalog.Book) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, book.GetDomainEvents()...)
	book.ClearDomainEvents()
}

// listFilter normalizes pagination input to a filter
func listFilter(page, limit int) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if limit > 0 {
		filter.Limit = limit
	}
	return filter
}
