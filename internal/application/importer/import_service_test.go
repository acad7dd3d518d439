package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/integration"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookProvider is a mock implementation of BookProvider
type MockBookProvider struct {
	mock.Mock
}

func (m *MockBookProvider) FetchPage(ctx context.Context, query integration.BookQuery, page int) ([]integration.ExternalBook, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ExternalBook), args.Error(1)
}

// MockBookRepository is a mock implementation of BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Book, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockBookRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]catalog.Book, error) {
	args := m.Called(ctx, query, filter)
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockBookRepository) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, externalIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) SaveWithVersion(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	args := m.Called(ctx, externalID)
	return args.Bool(0), args.Error(1)
}

func externalPage(start, count int) []integration.ExternalBook {
	books := make([]integration.ExternalBook, count)
	for i := 0; i < count; i++ {
		id := start + i
		books[i] = integration.ExternalBook{
			ExternalID: fmt.Sprintf("%d", id),
			Title:      fmt.Sprintf("Book %d", id),
			Authors:    "Some Author",
		}
	}
	return books
}

func TestImportService_Import_FetchesEnoughPages(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{Title: "potter"}

	// 45 requested with a page size of 20 means three upstream fetches
	provider.On("FetchPage", ctx, query, 1).Return(externalPage(1, 20), nil)
	provider.On("FetchPage", ctx, query, 2).Return(externalPage(21, 20), nil)
	provider.On("FetchPage", ctx, query, 3).Return(externalPage(41, 20), nil)
	repo.On("ExistingExternalIDs", ctx, mock.AnythingOfType("[]string")).Return(map[string]bool{}, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Book")).Return(nil)

	result, err := service.Import(ctx, ImportBooksRequest{Title: "potter", Pages: 45})

	require.NoError(t, err)
	assert.Equal(t, 45, result.Imported)
	assert.Len(t, result.Books, 45)
	assert.Empty(t, result.Warning)
	provider.AssertNumberOfCalls(t, "FetchPage", 3)
}

func TestImportService_Import_SkipsExistingExternalIDs(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{}

	provider.On("FetchPage", ctx, query, 1).Return(externalPage(1, 5), nil)
	repo.On("ExistingExternalIDs", ctx, []string{"1", "2", "3", "4", "5"}).
		Return(map[string]bool{"2": true, "4": true}, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Book")).Return(nil)

	result, err := service.Import(ctx, ImportBooksRequest{Pages: 5})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	repo.AssertNumberOfCalls(t, "Save", 3)
}

func TestImportService_Import_DefaultStockIsOne(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{}

	provider.On("FetchPage", ctx, query, 1).Return(externalPage(1, 1), nil)
	repo.On("ExistingExternalIDs", ctx, []string{"1"}).Return(map[string]bool{}, nil)
	repo.On("Save", ctx, mock.MatchedBy(func(b *catalog.Book) bool {
		return b.Stock == 1 && b.ExternalID == "1"
	})).Return(nil)

	result, err := service.Import(ctx, ImportBooksRequest{Pages: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	repo.AssertExpectations(t)
}

func TestImportService_Import_UpstreamFailureOnFirstPage(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{}

	provider.On("FetchPage", ctx, query, 1).Return(nil, shared.ErrUpstream)

	result, err := service.Import(ctx, ImportBooksRequest{Pages: 10})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrUpstream)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImportService_Import_PartialResultsOnMidLoopFailure(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{}

	provider.On("FetchPage", ctx, query, 1).Return(externalPage(1, 20), nil)
	provider.On("FetchPage", ctx, query, 2).Return(nil, shared.ErrUpstream)
	repo.On("ExistingExternalIDs", ctx, mock.AnythingOfType("[]string")).Return(map[string]bool{}, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Book")).Return(nil)

	result, err := service.Import(ctx, ImportBooksRequest{Pages: 40})

	require.NoError(t, err)
	assert.Equal(t, 20, result.Imported)
	assert.NotEmpty(t, result.Warning)
}

func TestImportService_Import_StopsOnEmptyPage(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	ctx := context.Background()
	query := integration.BookQuery{}

	provider.On("FetchPage", ctx, query, 1).Return([]integration.ExternalBook{}, nil)

	result, err := service.Import(ctx, ImportBooksRequest{Pages: 40})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	provider.AssertNumberOfCalls(t, "FetchPage", 1)
}

func TestImportService_Import_RejectsNonPositiveCount(t *testing.T) {
	provider := new(MockBookProvider)
	repo := new(MockBookRepository)
	service := NewImportService(provider, repo, nil)

	result, err := service.Import(context.Background(), ImportBooksRequest{Pages: 0})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}
