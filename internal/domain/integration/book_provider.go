package integration

import "context"

// PageSize is the fixed number of records the external catalog returns per page
const PageSize = 20

// BookQuery holds the optional filter criteria passed on every page request
type BookQuery struct {
	Title     string
	Authors   string
	ISBN      string
	Publisher string
}

// ExternalBook is one record from the external book-metadata catalog.
// Bibliographic fields arrive as display strings and are preserved as such.
type ExternalBook struct {
	ExternalID      string
	Title           string
	Authors         string
	ISBN            string
	ISBN13          string
	Publisher       string
	NumPages        int
	AverageRating   string
	LanguageCode    string
	PublicationDate string
	RatingsCount    string
}

// BookProvider fetches pages of records from an external book-metadata catalog
type BookProvider interface {
	// FetchPage fetches one fixed-size page (1-based) matching the query.
	// The provider may return fewer records than PageSize, including none.
	FetchPage(ctx context.Context, query BookQuery, page int) ([]ExternalBook, error)
}
