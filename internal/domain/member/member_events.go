package member

import (
	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeMember = "Member"

// Event type constants
const (
	EventTypeMemberRegistered  = "MemberRegistered"
	EventTypeMemberDebtChanged = "MemberDebtChanged"
)

// MemberRegisteredEvent is published when a new member is registered
type MemberRegisteredEvent struct {
	shared.BaseDomainEvent
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// NewMemberRegisteredEvent creates a new MemberRegisteredEvent
func NewMemberRegisteredEvent(m *Member) *MemberRegisteredEvent {
	return &MemberRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberRegistered, AggregateTypeMember, m.ID),
		MemberID:        m.ID,
		Name:            m.Name,
		Email:           m.Email,
	}
}

// MemberDebtChangedEvent is published when a fee is charged to a member
type MemberDebtChangedEvent struct {
	shared.BaseDomainEvent
	MemberID uuid.UUID       `json:"member_id"`
	Fee      decimal.Decimal `json:"fee"`
	NewDebt  decimal.Decimal `json:"new_debt"`
}

// NewMemberDebtChangedEvent creates a new MemberDebtChangedEvent
func NewMemberDebtChangedEvent(m *Member, fee decimal.Decimal) *MemberDebtChangedEvent {
	return &MemberDebtChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberDebtChanged, AggregateTypeMember, m.ID),
		MemberID:        m.ID,
		Fee:             fee,
		NewDebt:         m.OutstandingDebt,
	}
}
