package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// detailSelect pulls the loan row together with the linked book's and
// member's display fields in one query
const detailSelect = `transactions.id, transactions.book_id, transactions.member_id,
	books.title AS book_title, books.authors AS book_authors,
	members.name AS member_name, members.email AS member_email,
	transactions.issue_date, transactions.return_date, transactions.rent_fee,
	transactions.status, transactions.created_at`

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Transaction, error) {
	var tx lending.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindIssued finds the open loan for the exact (book, member) pair
func (r *GormTransactionRepository) FindIssued(ctx context.Context, bookID, memberID uuid.UUID) (*lending.Transaction, error) {
	var tx lending.Transaction
	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND member_id = ? AND status = ?", bookID, memberID, lending.StatusIssued).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAllDetailed lists transactions newest first with book and member
// fields denormalized
func (r *GormTransactionRepository) FindAllDetailed(ctx context.Context, filter shared.Filter) ([]lending.TransactionDetail, error) {
	var details []lending.TransactionDetail
	if err := r.detailQuery(ctx).
		Order("transactions.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// FindByMemberDetailed lists a member's transactions newest first
func (r *GormTransactionRepository) FindByMemberDetailed(ctx context.Context, memberID uuid.UUID, filter shared.Filter) ([]lending.TransactionDetail, error) {
	var details []lending.TransactionDetail
	if err := r.detailQuery(ctx).
		Where("transactions.member_id = ?", memberID).
		Order("transactions.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// Save creates or updates a transaction. The partial unique index on open
// (book, member) pairs catches a double issue that slipped past the
// service-level check.
func (r *GormTransactionRepository) Save(ctx context.Context, tx *lending.Transaction) error {
	if err := r.db.WithContext(ctx).Save(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return lending.ErrAlreadyIssued
		}
		return err
	}
	return nil
}

// SaveWithVersion saves with optimistic locking (checks version)
func (r *GormTransactionRepository) SaveWithVersion(ctx context.Context, tx *lending.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(tx).
		Where("id = ? AND version = ?", tx.ID, tx.Version-1).
		Updates(map[string]interface{}{
			"return_date": tx.ReturnDate,
			"rent_fee":    tx.RentFee,
			"status":      tx.Status,
			"version":     tx.Version,
			"updated_at":  tx.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts all transactions
func (r *GormTransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Transaction{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByMember counts a member's transactions
func (r *GormTransactionRepository) CountByMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Transaction{}).
		Where("member_id = ?", memberID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&lending.Transaction{}).
		Select(detailSelect).
		Joins("JOIN books ON books.id = transactions.book_id").
		Joins("JOIN members ON members.id = transactions.member_id")
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ lending.TransactionRepository = (*GormTransactionRepository)(nil)
