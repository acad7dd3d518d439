package catalog

import (
	"strings"
	"time"

	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AuthorsDelimiter joins multiple author names into the single stored string
const AuthorsDelimiter = "/"

// DefaultRentPerDay is the daily rent charged when none is specified
var DefaultRentPerDay = decimal.NewFromInt(10)

// Book represents a title in the library catalog.
// It is the aggregate root for catalog operations; Stock counts the physical
// copies currently available to lend.
type Book struct {
	shared.BaseAggregateRoot
	ExternalID      string          `gorm:"type:varchar(50);index"` // id in the external catalog, unique when present
	Title           string          `gorm:"type:varchar(500);not null"`
	Authors         string          `gorm:"type:varchar(500);not null"` // delimiter-joined author names
	ISBN            string          `gorm:"column:isbn;type:varchar(20)"`
	ISBN13          string          `gorm:"column:isbn13;type:varchar(20)"`
	Publisher       string          `gorm:"type:varchar(200)"`
	NumPages        int             `gorm:"not null;default:0"`
	LanguageCode    string          `gorm:"type:varchar(10);not null;default:'eng'"`
	AverageRating   string          `gorm:"type:varchar(20);not null;default:'0'"`
	RatingsCount    string          `gorm:"type:varchar(20);not null;default:'0'"`
	PublicationDate string          `gorm:"type:varchar(20)"` // opaque display string from the external source
	Stock           int             `gorm:"not null;default:1"`
	RentPerDay      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:10"`
}

// TableName returns the table name for GORM
func (Book) TableName() string {
	return "books"
}

// NewBook creates a new book with the required fields and defaults
func NewBook(title, authors string) (*Book, error) {
	title = strings.TrimSpace(title)
	authors = strings.TrimSpace(authors)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	if authors == "" {
		return nil, shared.NewDomainError("INVALID_AUTHORS", "Authors are required")
	}

	book := &Book{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Authors:           authors,
		LanguageCode:      "eng",
		AverageRating:     "0",
		RatingsCount:      "0",
		Stock:             1,
		RentPerDay:        DefaultRentPerDay,
	}

	book.AddDomainEvent(NewBookCreatedEvent(book))

	return book, nil
}

// JoinAuthors normalizes a list of author names to the stored representation
func JoinAuthors(authors []string) string {
	trimmed := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			trimmed = append(trimmed, a)
		}
	}
	return strings.Join(trimmed, AuthorsDelimiter)
}

// SetExternalID sets the external catalog identifier
func (b *Book) SetExternalID(externalID string) {
	b.ExternalID = strings.TrimSpace(externalID)
	b.UpdatedAt = time.Now()
}

// SetStock sets the number of copies available to lend
func (b *Book) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	b.Stock = stock
	b.UpdatedAt = time.Now()
	return nil
}

// SetRentPerDay sets the daily rent rate
func (b *Book) SetRentPerDay(rent decimal.Decimal) error {
	if rent.IsNegative() {
		return shared.NewDomainError("INVALID_RENT", "Rent per day cannot be negative")
	}
	b.RentPerDay = rent
	b.UpdatedAt = time.Now()
	return nil
}

// DecrementStock consumes one copy for a new loan
func (b *Book) DecrementStock() error {
	if b.Stock <= 0 {
		return ErrBookNotAvailable
	}
	b.Stock--
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookStockChangedEvent(b, -1))
	return nil
}

// IncrementStock restores one copy after a return
func (b *Book) IncrementStock() {
	b.Stock++
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookStockChangedEvent(b, 1))
}

// Update replaces the book's mutable fields with the given values
func (b *Book) Update(title, authors string) error {
	title = strings.TrimSpace(title)
	authors = strings.TrimSpace(authors)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	if authors == "" {
		return shared.NewDomainError("INVALID_AUTHORS", "Authors are required")
	}
	b.Title = title
	b.Authors = authors
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookUpdatedEvent(b))
	return nil
}

// ErrBookNotAvailable is returned when issuing a book with no stock left
var ErrBookNotAvailable = shared.NewDomainError("BOOK_NOT_AVAILABLE", "Book not available in stock")
