package models

import "time"

const BorrowingTable = "lib_borrowings"

type BorrowStatus string

const (
	BorrowPending         BorrowStatus = "pending"
	BorrowApproved        BorrowStatus = "approved"
	BorrowReturnRequested BorrowStatus = "return_requested"
	BorrowReturned        BorrowStatus = "returned"
)

// ActiveBorrowStatuses are the states that still hold a reserved copy.
var ActiveBorrowStatuses = []BorrowStatus{BorrowPending, BorrowApproved, BorrowReturnRequested}

// Borrowing ties a reserved copy of a book to a borrower. The copy itself is
// reserved the moment the row is created (pending); the approving librarian
// and the due date arrive at approval, the return date and fine at return.
type Borrowing struct {
	ID          string       `gorm:"primaryKey;type:uuid" json:"id"`
	BookID      string       `gorm:"type:uuid;index;not null" json:"bookId"`
	BorrowerID  string       `gorm:"type:uuid;index;not null" json:"borrowerId"`
	LibrarianID *string      `gorm:"type:uuid" json:"librarianId,omitempty"`
	Status      BorrowStatus `gorm:"size:20;index;not null" json:"status"`

	BorrowDate time.Time  `gorm:"not null" json:"borrowDate"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Fine       int        `gorm:"not null;default:0" json:"fine"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Borrowing) TableName() string { return BorrowingTable }
