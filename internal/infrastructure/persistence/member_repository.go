package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var m member.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByEmail finds a member by normalized email
func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	var m member.Member
	if err := r.db.WithContext(ctx).
		Where("email = ?", member.NormalizeEmail(email)).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll finds all members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]member.Member, error) {
	var members []member.Member
	query := r.db.WithContext(ctx).Model(&member.Member{})
	query = r.applySearch(query, filter.Search)
	query = applyOrderAndPage(query, filter)

	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Search finds members whose name or email contains the query, newest first
func (r *GormMemberRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]member.Member, error) {
	var members []member.Member
	q := r.applySearch(r.db.WithContext(ctx).Model(&member.Member{}), query)
	q = q.Order("created_at DESC").Offset(filter.Offset()).Limit(filter.Limit)

	if err := q.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountSearch counts members matching the search query
func (r *GormMemberRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	q := r.applySearch(r.db.WithContext(ctx).Model(&member.Member{}), query)

	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a member. A unique-index violation on email is a
// conflict: the existence check in the service can race with a concurrent
// insert, and the index is the final arbiter.
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Member with this email already exists")
		}
		return err
	}
	return nil
}

// SaveWithVersion saves with optimistic locking (checks version)
func (r *GormMemberRepository) SaveWithVersion(ctx context.Context, m *member.Member) error {
	result := r.db.WithContext(ctx).
		Model(m).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"name":             m.Name,
			"email":            m.Email,
			"phone":            m.Phone,
			"outstanding_debt": m.OutstandingDebt,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a member. Members with loans on record are protected by the
// foreign key on transactions and surface as a conflict.
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&member.Member{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return shared.NewDomainError("CONFLICT", "Member has loans on record and cannot be deleted")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&member.Member{}), filter.Search)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a member with the given email exists
func (r *GormMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&member.Member{}).
		Where("email = ?", member.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applySearch adds a case-insensitive substring match over name and email
func (r *GormMemberRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
}

// Ensure GormMemberRepository implements MemberRepository
var _ member.MemberRepository = (*GormMemberRepository)(nil)
