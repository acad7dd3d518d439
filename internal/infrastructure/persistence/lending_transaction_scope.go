package persistence

import (
	"context"

	applending "github.com/librarian/backend/internal/application/lending"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
	"gorm.io/gorm"
)

// GormTransactionScope implements the lending TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos applending.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BookRepo returns the book repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BookRepo() catalog.BookRepository {
	return NewGormBookRepository(r.tx)
}

// MemberRepo returns the member repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MemberRepo() member.MemberRepository {
	return NewGormMemberRepository(r.tx)
}

// TransactionRepo returns the loan repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransactionRepo() lending.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ applending.TransactionScope = (*GormTransactionScope)(nil)
var _ applending.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
