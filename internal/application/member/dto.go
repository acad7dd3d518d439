package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/shopspring/decimal"
)

// CreateMemberRequest represents a request to register a new member
type CreateMemberRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateMemberRequest represents a request to update a member
type UpdateMemberRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone,omitempty"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToMemberResponse converts a member aggregate to its API representation
func ToMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		OutstandingDebt: m.OutstandingDebt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Version:         m.Version,
	}
}

// ToMemberResponses converts a slice of member aggregates
func ToMemberResponses(members []member.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i])
	}
	return out
}
