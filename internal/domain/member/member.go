package member

import (
	"strings"
	"time"

	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DebtLimit is the maximum outstanding debt a member may carry.
// Reaching it blocks new issues; a return that would exceed it is rejected.
var DebtLimit = decimal.NewFromInt(500)

// Member represents a registered library member
type Member struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null"`
	Email           string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone           string          `gorm:"type:varchar(50)"`
	OutstandingDebt decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "members"
}

// NewMember creates a new member with zero outstanding debt
func NewMember(name, email string) (*Member, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}

	m := &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		OutstandingDebt:   decimal.Zero,
	}

	m.AddDomainEvent(NewMemberRegisteredEvent(m))

	return m, nil
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Rename changes the member's display name
func (m *Member) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	m.Name = name
	m.UpdatedAt = time.Now()
	return nil
}

// SetPhone sets the member's phone number
func (m *Member) SetPhone(phone string) {
	m.Phone = strings.TrimSpace(phone)
	m.UpdatedAt = time.Now()
}

// CanBorrow reports whether the member is below the debt limit and may be
// issued new books
func (m *Member) CanBorrow() bool {
	return m.OutstandingDebt.LessThan(DebtLimit)
}

// AddDebt charges the given fee against the member's outstanding debt.
// The prospective total may not exceed the debt limit.
func (m *Member) AddDebt(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fee cannot be negative")
	}
	newDebt := m.OutstandingDebt.Add(fee)
	if newDebt.GreaterThan(DebtLimit) {
		return NewDebtLimitExceededError(m.OutstandingDebt, fee)
	}
	m.OutstandingDebt = newDebt
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	m.AddDomainEvent(NewMemberDebtChangedEvent(m, fee))
	return nil
}

// NewDebtLimitExceededError builds the rejection for a charge that would push
// the member past the debt limit, carrying the computed figures
func NewDebtLimitExceededError(currentDebt, fee decimal.Decimal) *shared.DomainError {
	total := currentDebt.Add(fee)
	return shared.NewDomainErrorWithDetails(
		"DEBT_LIMIT_EXCEEDED",
		"Total debt would be "+total.String()+", exceeding the "+DebtLimit.String()+" limit",
		map[string]any{
			"current_debt": currentDebt,
			"rent_fee":     fee,
			"total_debt":   total,
		},
	)
}

// ErrDebtLimitReached blocks new issues once the member's debt is at the limit
var ErrDebtLimitReached = shared.NewDomainError("DEBT_LIMIT_REACHED", "Member outstanding debt is at the limit. Cannot issue new books")
