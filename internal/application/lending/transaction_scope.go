package lending

import (
	"context"

	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
)

// TransactionScope provides transactional access to the repositories a loan
// touches. All operations inside Execute commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the lending repositories
// within a transaction. All repositories share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// BookRepo returns the book repository scoped to the current transaction
	BookRepo() catalog.BookRepository
	// MemberRepo returns the member repository scoped to the current transaction
	MemberRepo() member.MemberRepository
	// TransactionRepo returns the loan repository scoped to the current transaction
	TransactionRepo() lending.TransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	bookRepo        catalog.BookRepository
	memberRepo      member.MemberRepository
	transactionRepo lending.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	bookRepo catalog.BookRepository,
	memberRepo member.MemberRepository,
	transactionRepo lending.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		bookRepo:        bookRepo,
		memberRepo:      memberRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BookRepo returns the book repository.
func (s *NoOpTransactionScope) BookRepo() catalog.BookRepository {
	return s.bookRepo
}

// MemberRepo returns the member repository.
func (s *NoOpTransactionScope) MemberRepo() member.MemberRepository {
	return s.memberRepo
}

// TransactionRepo returns the loan repository.
func (s *NoOpTransactionScope) TransactionRepo() lending.TransactionRepository {
	return s.transactionRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
