package member

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]member.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]member.Member, error) {
	args := m.Called(ctx, query, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMemberRepository) SaveWithVersion(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestMemberService_Create_Success(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	req := CreateMemberRequest{
		Name:  "Grace Hopper",
		Email: "Grace.Hopper@Example.com",
	}

	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*member.Member")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Grace Hopper", result.Name)
	assert.Equal(t, "grace.hopper@example.com", result.Email)
	assert.True(t, result.OutstandingDebt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestMemberService_Create_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	req := CreateMemberRequest{
		Name:  "Grace Hopper",
		Email: "grace@example.com",
	}

	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMemberService_Search(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	m1, _ := member.NewMember("Ada Lovelace", "ada@example.com")
	members := []member.Member{*m1}

	expectedFilter := shared.DefaultFilter()
	expectedFilter.Page = 2
	expectedFilter.Limit = 10

	mockRepo.On("Search", ctx, "ada", expectedFilter).Return(members, nil)
	mockRepo.On("CountSearch", ctx, "ada").Return(int64(25), nil)

	result, err := service.Search(ctx, "ada", 2, 10)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.Pages)
}

func TestMemberService_Search_RequiresQuery(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	result, err := service.Search(context.Background(), "", 1, 20)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUERY", domainErr.Code)
}

func TestMemberService_Update(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	m, _ := member.NewMember("Old Name", "old@example.com")
	m.ClearDomainEvents()

	newName := "New Name"
	mockRepo.On("FindByID", ctx, m.ID).Return(m, nil)
	mockRepo.On("SaveWithVersion", ctx, m).Return(nil)

	result, err := service.Update(ctx, m.ID, UpdateMemberRequest{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", result.Name)
	assert.Equal(t, "old@example.com", result.Email)
	mockRepo.AssertExpectations(t)
}

func TestMemberService_Delete_ReturnsDeletedMember(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	m, _ := member.NewMember("Genly Ai", "genly@example.com")
	m.ClearDomainEvents()

	mockRepo.On("FindByID", ctx, m.ID).Return(m, nil)
	mockRepo.On("Delete", ctx, m.ID).Return(nil)

	result, err := service.Delete(ctx, m.ID)

	assert.NoError(t, err)
	assert.Equal(t, m.ID, result.ID)
	assert.Equal(t, "genly@example.com", result.Email)
	mockRepo.AssertExpectations(t)
}

func TestMemberService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	service := NewMemberService(mockRepo, nil)

	ctx := context.Background()
	id := uuid.New()
	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	result, err := service.Delete(ctx, id)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
