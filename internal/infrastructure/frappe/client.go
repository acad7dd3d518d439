// Package frappe implements the external book-metadata catalog client
// against the Frappe library API.
package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/librarian/backend/internal/domain/integration"
	"github.com/librarian/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Frappe library endpoint
const DefaultBaseURL = "https://frappe.io/api/method/frappe-library"

// Client fetches book records from the Frappe library API.
// The API returns at most 20 records per call regardless of parameters.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Frappe API client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// flexString decodes a JSON field that may arrive as a string or a number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

// flexInt decodes a JSON field that may arrive as a number or a numeric string
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		num = json.Number(str)
	} else if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	n, err := strconv.Atoi(num.String())
	if err != nil {
		*i = 0
		return nil
	}
	*i = flexInt(n)
	return nil
}

type record struct {
	BookID          flexString `json:"bookID"`
	Title           flexString `json:"title"`
	Authors         flexString `json:"authors"`
	AverageRating   flexString `json:"average_rating"`
	ISBN            flexString `json:"isbn"`
	ISBN13          flexString `json:"isbn13"`
	LanguageCode    flexString `json:"language_code"`
	NumPages        flexInt    `json:"num_pages"`
	RatingsCount    flexString `json:"ratings_count"`
	PublicationDate flexString `json:"publication_date"`
	Publisher       flexString `json:"publisher"`
}

type response struct {
	Message []record `json:"message"`
}

// FetchPage fetches one page (1-based) of records matching the query
func (c *Client) FetchPage(ctx context.Context, query integration.BookQuery, page int) ([]integration.ExternalBook, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if query.Title != "" {
		params.Set("title", query.Title)
	}
	if query.Authors != "" {
		params.Set("authors", query.Authors)
	}
	if query.ISBN != "" {
		params.Set("isbn", query.ISBN)
	}
	if query.Publisher != "" {
		params.Set("publisher", query.Publisher)
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching external catalog page",
		zap.Int("page", page),
		zap.String("url", c.baseURL),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog returned status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog response: %v", shared.ErrUpstream, err)
	}

	books := make([]integration.ExternalBook, 0, len(body.Message))
	for _, rec := range body.Message {
		books = append(books, integration.ExternalBook{
			ExternalID:      string(rec.BookID),
			Title:           string(rec.Title),
			Authors:         string(rec.Authors),
			ISBN:            string(rec.ISBN),
			ISBN13:          string(rec.ISBN13),
			Publisher:       string(rec.Publisher),
			NumPages:        int(rec.NumPages),
			AverageRating:   string(rec.AverageRating),
			LanguageCode:    string(rec.LanguageCode),
			PublicationDate: string(rec.PublicationDate),
			RatingsCount:    string(rec.RatingsCount),
		})
	}

	return books, nil
}

// Ensure Client implements BookProvider
var _ integration.BookProvider = (*Client)(nil)
