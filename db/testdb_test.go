package db

import (
	"Gin_postgres_library_manager/models"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return NewRepo(conn)
}

func seedBook(t *testing.T, r *Repo, title string, quantity int) *models.Book {
	t.Helper()
	b := &models.Book{
		ID:              uuid.NewString(),
		ISBN:            uuid.NewString()[:8],
		Title:           title,
		Author:          "Anon",
		Genre:           "fiction",
		TotalCopies:     quantity,
		AvailableCopies: quantity,
	}
	require.NoError(t, r.CreateBook(t.Context(), b))
	return b
}

func seedBorrower(t *testing.T, r *Repo, name string) *models.Borrower {
	t.Helper()
	b := &models.Borrower{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateBorrower(t.Context(), b))
	return b
}

func seedLibrarian(t *testing.T, r *Repo, name string) *models.Librarian {
	t.Helper()
	l := &models.Librarian{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateLibrarian(t.Context(), l))
	return l
}
