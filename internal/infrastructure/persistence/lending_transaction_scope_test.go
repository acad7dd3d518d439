package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	applending "github.com/librarian/backend/internal/application/lending"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Book{}, &member.Member{}, &lending.Transaction{})
	require.NoError(t, err)

	return db
}

func TestGormTransactionScope_Commit(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	book, err := catalog.NewBook("Dune", "Frank Herbert")
	require.NoError(t, err)
	m, err := member.NewMember("Paul Atreides", "paul@arrakis.example")
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos applending.TransactionalRepositories) error {
		if err := repos.BookRepo().Save(ctx, book); err != nil {
			return err
		}
		if err := repos.MemberRepo().Save(ctx, m); err != nil {
			return err
		}
		loan, err := lending.NewTransaction(book.ID, m.ID, time.Now())
		if err != nil {
			return err
		}
		return repos.TransactionRepo().Save(ctx, loan)
	})
	require.NoError(t, err)

	saved, err := NewGormBookRepository(db).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", saved.Title)

	open, err := NewGormTransactionRepository(db).FindIssued(ctx, book.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, open.BookID)
}

func TestGormTransactionScope_RollbackOnError(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	book, err := catalog.NewBook("Hyperion", "Dan Simmons")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = scope.Execute(ctx, func(repos applending.TransactionalRepositories) error {
		if err := repos.BookRepo().Save(ctx, book); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	_, err = NewGormBookRepository(db).FindByID(ctx, book.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}
