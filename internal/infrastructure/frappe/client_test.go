package frappe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/librarian/backend/internal/domain/integration"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPage(t *testing.T) {
	t.Run("should decode records and forward query parameters", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"page":  r.URL.Query().Get("page"),
				"title": r.URL.Query().Get("title"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":[
				{"bookID":1,"title":"Harry Potter","authors":"J.K. Rowling/Mary GrandPre","average_rating":4.57,"isbn":"0439785960","isbn13":"9780439785969","language_code":"eng","num_pages":652,"ratings_count":2095690,"publication_date":"9/16/2006","publisher":"Scholastic Inc."},
				{"bookID":"2","title":"Second Book","authors":"Somebody","average_rating":"3.9","isbn":"111","isbn13":"222","language_code":"eng","num_pages":"300","ratings_count":"42","publication_date":"1/1/2001","publisher":"Acme"}
			]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, nil)
		books, err := client.FetchPage(context.Background(), integration.BookQuery{Title: "potter"}, 2)

		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, "2", gotQuery["page"])
		assert.Equal(t, "potter", gotQuery["title"])

		first := books[0]
		assert.Equal(t, "1", first.ExternalID)
		assert.Equal(t, "Harry Potter", first.Title)
		assert.Equal(t, "J.K. Rowling/Mary GrandPre", first.Authors)
		assert.Equal(t, "4.57", first.AverageRating)
		assert.Equal(t, 652, first.NumPages)
		assert.Equal(t, "9/16/2006", first.PublicationDate)

		second := books[1]
		assert.Equal(t, "2", second.ExternalID)
		assert.Equal(t, 300, second.NumPages)
		assert.Equal(t, "42", second.RatingsCount)
	})

	t.Run("should return empty slice when message is empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":[]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, nil)
		books, err := client.FetchPage(context.Background(), integration.BookQuery{}, 1)

		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("should treat non-200 status as upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, nil)
		_, err := client.FetchPage(context.Background(), integration.BookQuery{}, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})

	t.Run("should treat malformed body as upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, nil)
		_, err := client.FetchPage(context.Background(), integration.BookQuery{}, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})

	t.Run("should clamp page below one", func(t *testing.T) {
		var gotPage string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPage = r.URL.Query().Get("page")
			w.Write([]byte(`{"message":[]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, nil)
		_, err := client.FetchPage(context.Background(), integration.BookQuery{}, 0)

		require.NoError(t, err)
		assert.Equal(t, "1", gotPage)
	})
}
