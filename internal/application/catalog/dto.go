package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// AuthorsField accepts either a single string or a list of strings in JSON
// and normalizes to the list form
type AuthorsField []string

// UnmarshalJSON implements string-or-list decoding
func (a *AuthorsField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = AuthorsField(list)
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*a = AuthorsField{single}
	return nil
}

// Joined returns the delimiter-joined stored representation
func (a AuthorsField) Joined() string {
	return catalog.JoinAuthors([]string(a))
}

// FlexInt accepts a JSON number or a numeric string.
// Empty strings and null read as zero, matching the external catalog feed
// where numeric fields arrive in either form.
type FlexInt int

// UnmarshalJSON implements number-or-string decoding
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexInt(n)
	return nil
}

// CreateBookRequest represents a request to create a new book
type CreateBookRequest struct {
	Title           string           `json:"title" binding:"required,min=1,max=500"`
	Authors         AuthorsField     `json:"authors" binding:"required"`
	ExternalID      string           `json:"external_id"`
	ISBN            string           `json:"isbn" binding:"max=20"`
	ISBN13          string           `json:"isbn13" binding:"max=20"`
	Publisher       string           `json:"publisher" binding:"max=200"`
	NumPages        FlexInt          `json:"num_pages" binding:"omitempty,min=0"`
	LanguageCode    string           `json:"language_code" binding:"max=10"`
	AverageRating   string           `json:"average_rating" binding:"max=20"`
	RatingsCount    string           `json:"ratings_count" binding:"max=20"`
	PublicationDate string           `json:"publication_date" binding:"max=20"`
	Stock           *FlexInt         `json:"stock" binding:"omitempty,min=0"`
	RentPerDay      *decimal.Decimal `json:"rent_per_day"`
}

// UpdateBookRequest represents a request to update a book
type UpdateBookRequest struct {
	Title      *string          `json:"title" binding:"omitempty,min=1,max=500"`
	Authors    AuthorsField     `json:"authors"`
	ISBN       *string          `json:"isbn" binding:"omitempty,max=20"`
	ISBN13     *string          `json:"isbn13" binding:"omitempty,max=20"`
	Publisher  *string          `json:"publisher" binding:"omitempty,max=200"`
	NumPages   *FlexInt         `json:"num_pages" binding:"omitempty,min=0"`
	Stock      *FlexInt         `json:"stock" binding:"omitempty,min=0"`
	RentPerDay *decimal.Decimal `json:"rent_per_day"`
}

// BookResponse represents a book in API responses
type BookResponse struct {
	ID              uuid.UUID       `json:"id"`
	ExternalID      string          `json:"external_id,omitempty"`
	Title           string          `json:"title"`
	Authors         string          `json:"authors"`
	ISBN            string          `json:"isbn,omitempty"`
	ISBN13          string          `json:"isbn13,omitempty"`
	Publisher       string          `json:"publisher,omitempty"`
	NumPages        int             `json:"num_pages"`
	LanguageCode    string          `json:"language_code"`
	AverageRating   string          `json:"average_rating"`
	RatingsCount    string          `json:"ratings_count"`
	PublicationDate string          `json:"publication_date,omitempty"`
	Stock           int             `json:"stock"`
	RentPerDay      decimal.Decimal `json:"rent_per_day"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToBookResponse converts a book aggregate to its API representation
func ToBookResponse(b *catalog.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		ExternalID:      b.ExternalID,
		Title:           b.Title,
		Authors:         b.Authors,
		ISBN:            b.ISBN,
		ISBN13:          b.ISBN13,
		Publisher:       b.Publisher,
		NumPages:        b.NumPages,
		LanguageCode:    b.LanguageCode,
		AverageRating:   b.AverageRating,
		RatingsCount:    b.RatingsCount,
		PublicationDate: b.PublicationDate,
		Stock:           b.Stock,
		RentPerDay:      b.RentPerDay,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Version:         b.Version,
	}
}

// ToBookResponses converts a slice of book aggregates
func ToBookResponses(books []catalog.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i := range books {
		out[i] = ToBookResponse(&books[i])
	}
	return out
}
