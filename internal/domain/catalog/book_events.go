package catalog

import (
	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBook = "Book"

// Event type constants
const (
	EventTypeBookCreated      = "BookCreated"
	EventTypeBookUpdated      = "BookUpdated"
	EventTypeBookStockChanged = "BookStockChanged"
)

// BookCreatedEvent is published when a new book enters the catalog
type BookCreatedEvent struct {
	shared.BaseDomainEvent
	BookID     uuid.UUID `json:"book_id"`
	ExternalID string    `json:"external_id,omitempty"`
	Title      string    `json:"title"`
	Authors    string    `json:"authors"`
	Stock      int       `json:"stock"`
}

// NewBookCreatedEvent creates a new BookCreatedEvent
func NewBookCreatedEvent(book *Book) *BookCreatedEvent {
	return &BookCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookCreated, AggregateTypeBook, book.ID),
		BookID:          book.ID,
		ExternalID:      book.ExternalID,
		Title:           book.Title,
		Authors:         book.Authors,
		Stock:           book.Stock,
	}
}

// BookUpdatedEvent is published when a book's details change
type BookUpdatedEvent struct {
	shared.BaseDomainEvent
	BookID  uuid.UUID `json:"book_id"`
	Title   string    `json:"title"`
	Authors string    `json:"authors"`
}

// NewBookUpdatedEvent creates a new BookUpdatedEvent
func NewBookUpdatedEvent(book *Book) *BookUpdatedEvent {
	return &BookUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookUpdated, AggregateTypeBook, book.ID),
		BookID:          book.ID,
		Title:           book.Title,
		Authors:         book.Authors,
	}
}

// BookStockChangedEvent is published when copies are lent out or returned
type BookStockChangedEvent struct {
	shared.BaseDomainEvent
	BookID   uuid.UUID `json:"book_id"`
	Delta    int       `json:"delta"`
	NewStock int       `json:"new_stock"`
}

// NewBookStockChangedEvent creates a new BookStockChangedEvent
func NewBookStockChangedEvent(book *Book, delta int) *BookStockChangedEvent {
	return &BookStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookStockChanged, AggregateTypeBook, book.ID),
		BookID:          book.ID,
		Delta:           delta,
		NewStock:        book.Stock,
	}
}
