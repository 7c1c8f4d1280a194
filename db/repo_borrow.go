package db

import (
	"Gin_postgres_library_manager/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLoanDays = 7
	FinePerDay      = 5
)

// Today is the current date at UTC midnight. Borrow, due and return dates all
// carry day precision, so fines come out as whole days late.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// RequestBorrow reserves a copy for the borrower and opens a pending ledger
// row, in one transaction. The decrement is a conditional single statement so
// two borrowers can never both take the last copy.
func (r *Repo) RequestBorrow(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error) {
	var created *models.Borrowing
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies >= 1", bookID).
			Update("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Book{}).Where("id = ?", bookID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrOutOfStock
		}

		br := &models.Borrowing{
			ID:         uuid.NewString(),
			BookID:     bookID,
			BorrowerID: borrowerID,
			Status:     models.BorrowPending,
			BorrowDate: Today(),
		}
		if err := tx.Create(br).Error; err != nil {
			return err
		}
		created = br
		return nil
	})
	return created, err
}

// ApproveBorrow moves a pending request to approved and stamps the approving
// librarian and the due date. The copy was already reserved at request time,
// so the book is untouched.
func (r *Repo) ApproveBorrow(ctx context.Context, borrowID, librarianID string, days int) (*models.Borrowing, error) {
	if days <= 0 {
		days = DefaultLoanDays
	}
	due := Today().AddDate(0, 0, days)

	res := r.DB.WithContext(ctx).Model(&models.Borrowing{}).
		Where("id = ? AND status = ?", borrowID, models.BorrowPending).
		Updates(map[string]any{
			"status":       models.BorrowApproved,
			"librarian_id": librarianID,
			"due_date":     due,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.borrowConflict(ctx, borrowID)
	}
	return r.FindBorrowingByID(ctx, borrowID)
}

// RequestReturn flags an approved loan as awaiting a librarian's return
// confirmation. Scoped to the caller's own rows.
func (r *Repo) RequestReturn(ctx context.Context, borrowID, borrowerID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Borrowing{}).
		Where("id = ? AND borrower_id = ? AND status = ?", borrowID, borrowerID, models.BorrowApproved).
		Update("status", models.BorrowReturnRequested)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		err := r.DB.WithContext(ctx).Model(&models.Borrowing{}).
			Where("id = ? AND borrower_id = ?", borrowID, borrowerID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// ReturnBorrow closes the loan and releases the copy, in one transaction.
// Librarians may confirm a requested return or force one straight from
// approved; returned is terminal and pending rows never held the book out.
func (r *Repo) ReturnBorrow(ctx context.Context, borrowID string) (*models.Borrowing, error) {
	var out *models.Borrowing
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var br models.Borrowing
		if err := tx.First(&br, "id = ?", borrowID).Error; err != nil {
			return err
		}
		if br.Status != models.BorrowApproved && br.Status != models.BorrowReturnRequested {
			return ErrInvalidTransition
		}

		today := Today()
		fine := 0
		if br.DueDate != nil && today.After(*br.DueDate) {
			fine = int(today.Sub(*br.DueDate).Hours()/24) * FinePerDay
		}

		res := tx.Model(&models.Borrowing{}).
			Where("id = ? AND status IN ?", borrowID,
				[]models.BorrowStatus{models.BorrowApproved, models.BorrowReturnRequested}).
			Updates(map[string]any{
				"status":      models.BorrowReturned,
				"return_date": today,
				"fine":        fine,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		// Release the copy; the guard keeps available <= total no matter what.
		if err := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies < total_copies", br.BookID).
			Update("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
			return err
		}

		br.Status = models.BorrowReturned
		br.ReturnDate = &today
		br.Fine = fine
		out = &br
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) FindBorrowingByID(ctx context.Context, id string) (*models.Borrowing, error) {
	var br models.Borrowing
	if err := r.DB.WithContext(ctx).First(&br, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &br, nil
}

// borrowConflict tells a missing row apart from one in the wrong state.
func (r *Repo) borrowConflict(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Borrowing{}).
		Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrInvalidTransition
}

// WorkItem is one row of the librarian's queue: new requests plus loans the
// borrower wants to hand back.
type WorkItem struct {
	BorrowID     string              `gorm:"column:borrow_id" json:"borrowId"`
	BookTitle    string              `json:"bookTitle"`
	BorrowerName string              `json:"borrowerName"`
	Status       models.BorrowStatus `json:"status"`
}

func (r *Repo) ListPendingWork(ctx context.Context) ([]WorkItem, error) {
	var rows []WorkItem
	err := r.DB.WithContext(ctx).
		Table(models.BorrowingTable+" br").
		Select("br.id AS borrow_id, b.title AS book_title, u.name AS borrower_name, br.status").
		Joins("JOIN "+models.BookTable+" b ON b.id = br.book_id").
		Joins("JOIN "+models.BorrowerTable+" u ON u.id = br.borrower_id").
		Where("br.status IN ?", []models.BorrowStatus{models.BorrowPending, models.BorrowReturnRequested}).
		Order("br.status ASC").
		Scan(&rows).Error
	return rows, err
}

// LoanItem is one of a borrower's own open loans.
type LoanItem struct {
	BorrowID  string              `gorm:"column:borrow_id" json:"borrowId"`
	BookTitle string              `json:"bookTitle"`
	DueDate   *time.Time          `json:"dueDate,omitempty"`
	Status    models.BorrowStatus `json:"status"`
}

func (r *Repo) MyActiveLoans(ctx context.Context, borrowerID string) ([]LoanItem, error) {
	var rows []LoanItem
	err := r.DB.WithContext(ctx).
		Table(models.BorrowingTable+" br").
		Select("br.id AS borrow_id, b.title AS book_title, br.due_date, br.status").
		Joins("JOIN "+models.BookTable+" b ON b.id = br.book_id").
		Where("br.borrower_id = ? AND br.status IN ?", borrowerID, models.ActiveBorrowStatuses).
		Order("br.borrow_date DESC").
		Scan(&rows).Error
	return rows, err
}
