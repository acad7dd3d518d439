package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBookRepository creates a GormBookRepository with a mocked SQL connection
func newMockBookRepository(t *testing.T) (*GormBookRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBookRepository(gormDB), mock, mockDB
}

func TestGormBookRepository_FindByID(t *testing.T) {
	t.Run("finds existing book", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "title", "authors", "stock", "rent_per_day", "version"}).
			AddRow(bookID, "Dune", "Frank Herbert", 3, decimal.NewFromInt(10), 1)

		mock.ExpectQuery(`SELECT \* FROM "books" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookID, 1).
			WillReturnRows(rows)

		book, err := repo.FindByID(context.Background(), bookID)

		assert.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, bookID, book.ID)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 3, book.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing book", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "books" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		book, err := repo.FindByID(context.Background(), bookID)

		assert.Error(t, err)
		assert.Nil(t, book)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_Search(t *testing.T) {
	t.Run("ranks matches with full text search", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "title", "authors"}).
			AddRow(uuid.New(), "Dune", "Frank Herbert").
			AddRow(uuid.New(), "Dune Messiah", "Frank Herbert")

		mock.ExpectQuery(`SELECT \* FROM "books" WHERE setweight.* @@ plainto_tsquery.* ORDER BY ts_rank`).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		books, err := repo.Search(context.Background(), "dune", filter)

		assert.NoError(t, err)
		assert.Len(t, books, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_SaveWithVersion(t *testing.T) {
	newVersionedBook := func() *catalog.Book {
		book, err := catalog.NewBook("Dune", "Frank Herbert")
		if err != nil {
			t.Fatal(err)
		}
		book.Version = 2
		return book
	}

	t.Run("updates when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "books" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithVersion(context.Background(), newVersionedBook())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "books" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithVersion(context.Background(), newVersionedBook())

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_ExistsByExternalID(t *testing.T) {
	t.Run("returns true when present", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "books" WHERE external_id = \$1`).
			WithArgs("42").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByExternalID(context.Background(), "42")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty external ID short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		exists, err := repo.ExistsByExternalID(context.Background(), "")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_ExistingExternalIDs(t *testing.T) {
	t.Run("returns the subset already stored", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"external_id"}).AddRow("2").AddRow("4")

		mock.ExpectQuery(`SELECT "external_id" FROM "books" WHERE external_id IN`).
			WillReturnRows(rows)

		existing, err := repo.ExistingExternalIDs(context.Background(), []string{"1", "2", "3", "4"})

		assert.NoError(t, err)
		assert.Equal(t, map[string]bool{"2": true, "4": true}, existing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input avoids querying", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		existing, err := repo.ExistingExternalIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, existing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_Delete(t *testing.T) {
	t.Run("deletes existing book", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()

		mock.ExpectExec(`DELETE FROM "books" WHERE id = \$1`).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), bookID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()

		mock.ExpectExec(`DELETE FROM "books" WHERE id = \$1`).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), bookID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
