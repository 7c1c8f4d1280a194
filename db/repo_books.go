package db

import (
	"Gin_postgres_library_manager/models"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// BookRow is a Book plus the id of one currently-active borrowing against it.
// Reservations are aggregate counts, so even a multi-copy book surfaces at
// most one borrow id here; the UI only needs it as a shortcut.
type BookRow struct {
	ID              string    `json:"id"`
	ISBN            string    `gorm:"column:isbn" json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Status          string    `gorm:"-" json:"status"`
	CurrentBorrowID *string   `json:"currentBorrowId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (r *Repo) ListBooks(ctx context.Context, q string) ([]BookRow, error) {
	qry := r.DB.WithContext(ctx).
		Table(models.BookTable + " b").
		Select(`b.id, b.isbn, b.title, b.author, b.genre,
			b.total_copies, b.available_copies, b.created_at,
			(SELECT br.id FROM ` + models.BorrowingTable + ` br
			 WHERE br.book_id = b.id
			 AND br.status IN ('pending', 'approved', 'return_requested')
			 LIMIT 1) AS current_borrow_id`)

	if s := strings.TrimSpace(q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		qry = qry.Where(
			"LOWER(b.title) LIKE ? OR LOWER(b.author) LIKE ? OR LOWER(b.isbn) LIKE ?",
			like, like, like,
		)
	}

	var rows []BookRow
	if err := qry.Order("b.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Status = models.StatusOf(rows[i].AvailableCopies)
	}
	return rows, nil
}

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

type UpdateBookInput struct {
	ISBN        string
	Title       string
	Author      string
	Genre       string
	TotalCopies int
}

// UpdateBook rewrites the descriptive fields and the total copy count. Copies
// already lent out stay lent out: the new total may not fall below them, and
// the available count is recomputed as newTotal - borrowed.
func (r *Repo) UpdateBook(ctx context.Context, id string, in UpdateBookInput) (*models.Book, error) {
	var out models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		borrowed := b.TotalCopies - b.AvailableCopies
		if in.TotalCopies < borrowed {
			return ErrTotalBelowBorrowed
		}
		if err := tx.Model(&models.Book{}).Where("id = ?", id).Updates(map[string]any{
			"isbn":             in.ISBN,
			"title":            in.Title,
			"author":           in.Author,
			"genre":            in.Genre,
			"total_copies":     in.TotalCopies,
			"available_copies": in.TotalCopies - borrowed,
		}).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBook removes the book and every ledger row for it. Refused while any
// copy is out; the cascade is destructive, history for the book goes with it.
func (r *Repo) DeleteBook(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if b.AvailableCopies < b.TotalCopies {
			return ErrCopiesOutstanding
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Borrowing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Book{}, "id = ?", id).Error
	})
}
