package member

import (
	"context"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
)

// MemberService handles member registry operations
type MemberService struct {
	memberRepo member.MemberRepository
	eventBus   shared.EventPublisher
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo member.MemberRepository, eventBus shared.EventPublisher) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		eventBus:   eventBus,
	}
}

// Create registers a new member. Email is normalized and must be unique.
func (s *MemberService) Create(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error) {
	exists, err := s.memberRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Member with this email already exists")
	}

	m, err := member.NewMember(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		m.SetPhone(req.Phone)
	}

	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, m)

	response := ToMemberResponse(m)
	return &response, nil
}

// GetByID retrieves a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMemberResponse(m)
	return &response, nil
}

// List retrieves a page of members, newest first
func (s *MemberService) List(ctx context.Context, page, limit int) (*shared.Paginated[MemberResponse], error) {
	filter := listFilter(page, limit)

	members, err := s.memberRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToMemberResponses(members), total, filter.Page, filter.Limit)
	return &result, nil
}

// Search retrieves a page of members whose name or email contains the query
func (s *MemberService) Search(ctx context.Context, query string, page, limit int) (*shared.Paginated[MemberResponse], error) {
	if query == "" {
		return nil, shared.NewDomainError("INVALID_QUERY", "Search query is required")
	}
	filter := listFilter(page, limit)

	members, err := s.memberRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.CountSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToMemberResponses(members), total, filter.Page, filter.Limit)
	return &result, nil
}

// Update updates a member's editable fields
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := m.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		m.SetPhone(*req.Phone)
	}

	m.IncrementVersion()
	if err := s.memberRepo.SaveWithVersion(ctx, m); err != nil {
		return nil, err
	}

	response := ToMemberResponse(m)
	return &response, nil
}

// Delete removes a member from the registry and returns the deleted record
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	response := ToMemberResponse(m)
	return &response, nil
}

func (s *MemberService) publishEvents(ctx context.Context, m *member.Member) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, m.GetDomainEvents()...)
	m.ClearDomainEvents()
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
