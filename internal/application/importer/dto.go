package importer

import (
	appcatalog "github.com/librarian/backend/internal/application/catalog"
)

// ImportBooksRequest represents a bulk import request. Pages is the target
// number of new books to import; the optional filters are passed through to
// the external catalog on every page request.
type ImportBooksRequest struct {
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	ISBN      string `json:"isbn"`
	Publisher string `json:"publisher"`
	Pages     int    `json:"pages" binding:"required,min=1"`
}

// ImportBooksResponse reports what the import run created.
// When the upstream failed partway through, Warning names the failure and the
// books imported before it are still reported.
type ImportBooksResponse struct {
	Imported int                       `json:"imported"`
	Books    []appcatalog.BookResponse `json:"books"`
	Warning  string                    `json:"warning,omitempty"`
}
