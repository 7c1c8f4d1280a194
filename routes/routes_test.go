package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/db"
	"Gin_postgres_library_manager/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*app.App, *db.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	a := app.New(app.Config{WebOrigin: "http://localhost:3000", JWTSecret: "test-secret", Port: "0"}, conn)
	RegisterRoutes(a.Router, a)
	return a, db.NewRepo(conn)
}

func do(t *testing.T, a *app.App, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerAndLogin signs up a principal of the given kind and returns its token.
func registerAndLogin(t *testing.T, a *app.App, kind, name, email string) string {
	t.Helper()
	w := do(t, a, http.MethodPost, "/"+kind+"/register", "", app.H{
		"name": name, "email": email, "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, a, http.MethodPost, "/"+kind+"/login", "", app.H{
		"email": email, "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, name, resp.Name)
	return resp.Token
}

func TestAuthGating(t *testing.T) {
	a, _ := newTestApp(t)
	borrower := registerAndLogin(t, a, "borrower", "Alice", "alice@example.com")

	// No token.
	w := do(t, a, http.MethodPost, "/books", "", app.H{"isbn": "1", "title": "X", "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = do(t, a, http.MethodPost, "/books", "bogus", app.H{"isbn": "1", "title": "X", "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token, wrong role.
	w = do(t, a, http.MethodPost, "/books", borrower, app.H{"isbn": "1", "title": "X", "quantity": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, a, http.MethodGet, "/borrow/requests", borrower, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The catalog listing stays public.
	w = do(t, a, http.MethodGet, "/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLoginFailures(t *testing.T) {
	a, _ := newTestApp(t)
	registerAndLogin(t, a, "librarian", "Lena", "lena@example.com")

	// Duplicate email.
	w := do(t, a, http.MethodPost, "/librarian/register", "", app.H{
		"name": "Other", "email": "lena@example.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing fields.
	w = do(t, a, http.MethodPost, "/librarian/register", "", app.H{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown account.
	w = do(t, a, http.MethodPost, "/librarian/login", "", app.H{
		"email": "nobody@example.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password.
	w = do(t, a, http.MethodPost, "/librarian/login", "", app.H{
		"email": "lena@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddBookValidation(t *testing.T) {
	a, _ := newTestApp(t)
	lib := registerAndLogin(t, a, "librarian", "Lena", "lena@example.com")

	w := do(t, a, http.MethodPost, "/books", lib, app.H{"title": "No ISBN", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/books", lib, app.H{"isbn": "1", "title": "X", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/books", lib, app.H{
		"isbn": "1", "title": "X", "author": "A", "genre": "g", "quantity": 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

// The full lifecycle: two borrowers compete for two copies, one loan gets
// approved and returned, the book cannot be deleted while copies are out.
func TestEndToEndBorrowLifecycle(t *testing.T) {
	a, repo := newTestApp(t)
	lib := registerAndLogin(t, a, "librarian", "Lena", "lena@example.com")
	alice := registerAndLogin(t, a, "borrower", "Alice", "alice@example.com")
	bob := registerAndLogin(t, a, "borrower", "Bob", "bob@example.com")

	w := do(t, a, http.MethodPost, "/books", lib, app.H{
		"isbn": "1", "title": "X", "author": "A", "genre": "g", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var books []db.BookRow
	w = do(t, a, http.MethodGet, "/books", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &books)
	require.Len(t, books, 1)
	bookID := books[0].ID
	assert.Equal(t, 2, books[0].TotalCopies)
	assert.Equal(t, 2, books[0].AvailableCopies)
	assert.Equal(t, models.BookAvailable, books[0].Status)

	// Alice and Bob each reserve a copy at request time.
	w = do(t, a, http.MethodPost, "/borrow", alice, app.H{"bookId": bookID})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, a, http.MethodPost, "/borrow", bob, app.H{"bookId": bookID})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/books", "", nil)
	decode(t, w, &books)
	assert.Equal(t, 0, books[0].AvailableCopies)
	assert.Equal(t, models.BookBorrowed, books[0].Status)

	// A third request has nothing left to take.
	w = do(t, a, http.MethodPost, "/borrow", alice, app.H{"bookId": bookID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The librarian's queue shows both, pending first.
	var work []db.WorkItem
	w = do(t, a, http.MethodGet, "/borrow/requests", lib, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &work)
	require.Len(t, work, 2)
	var aliceBorrowID string
	for _, item := range work {
		assert.Equal(t, models.BorrowPending, item.Status)
		if item.BorrowerName == "Alice" {
			aliceBorrowID = item.BorrowID
		}
	}
	require.NotEmpty(t, aliceBorrowID)

	w = do(t, a, http.MethodPost, "/borrow/approve", lib, app.H{"borrowId": aliceBorrowID, "days": 7})
	require.Equal(t, http.StatusOK, w.Code)

	var loans []db.LoanItem
	w = do(t, a, http.MethodGet, "/borrower/my-books", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &loans)
	require.Len(t, loans, 1)
	assert.Equal(t, models.BorrowApproved, loans[0].Status)
	require.NotNil(t, loans[0].DueDate)

	// Two copies out: delete is blocked.
	w = do(t, a, http.MethodDelete, "/books/"+bookID, lib, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Return-request a loan that is still pending: rejected.
	w = do(t, a, http.MethodPost, "/borrower/request-return", bob, app.H{"borrowId": mustBobBorrowID(t, repo, bookID)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Alice hands hers back, Lena confirms; on time, no fine.
	w = do(t, a, http.MethodPost, "/borrower/request-return", alice, app.H{"borrowId": aliceBorrowID})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, a, http.MethodPost, "/return", lib, app.H{"borrowId": aliceBorrowID})
	require.Equal(t, http.StatusOK, w.Code)
	var ret struct {
		Message string `json:"message"`
		Fine    int    `json:"fine"`
	}
	decode(t, w, &ret)
	assert.Equal(t, "returned", ret.Message)
	assert.Zero(t, ret.Fine)

	w = do(t, a, http.MethodGet, "/books", "", nil)
	decode(t, w, &books)
	assert.Equal(t, 1, books[0].AvailableCopies)
	assert.Equal(t, models.BookAvailable, books[0].Status)
}

// mustBobBorrowID digs Bob's pending borrowing out of the store.
func mustBobBorrowID(t *testing.T, repo *db.Repo, bookID string) string {
	t.Helper()
	var rows []models.Borrowing
	require.NoError(t, repo.DB.
		Where("book_id = ? AND status = ?", bookID, models.BorrowPending).
		Find(&rows).Error)
	require.Len(t, rows, 1)
	return rows[0].ID
}

func TestUpdateBookOverHTTP(t *testing.T) {
	a, _ := newTestApp(t)
	lib := registerAndLogin(t, a, "librarian", "Lena", "lena@example.com")

	w := do(t, a, http.MethodPost, "/books", lib, app.H{
		"isbn": "1", "title": "X", "author": "A", "genre": "g", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var books []db.BookRow
	w = do(t, a, http.MethodGet, "/books", "", nil)
	decode(t, w, &books)
	bookID := books[0].ID

	w = do(t, a, http.MethodPut, "/books/"+bookID, lib, app.H{
		"isbn": "1", "title": "X", "author": "A", "genre": "g", "totalCopies": 4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/books", "", nil)
	decode(t, w, &books)
	assert.Equal(t, 4, books[0].TotalCopies)
	assert.Equal(t, 4, books[0].AvailableCopies)

	w = do(t, a, http.MethodPut, "/books/"+bookID, lib, app.H{
		"isbn": "1", "title": "X", "totalCopies": 4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown id.
	w = do(t, a, http.MethodPut, "/books/none", lib, app.H{
		"isbn": "1", "title": "X", "totalCopies": 4,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
