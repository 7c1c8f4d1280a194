package db

import (
	"Gin_postgres_library_manager/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Business-rule failures the controllers map to 400s. A missing row is
// gorm.ErrRecordNotFound everywhere.
var (
	ErrEmailTaken         = errors.New("email already used")
	ErrOutOfStock         = errors.New("out of stock")
	ErrCopiesOutstanding  = errors.New("copies are currently borrowed")
	ErrTotalBelowBorrowed = errors.New("total cannot be less than borrowed amount")
	ErrInvalidTransition  = errors.New("invalid borrowing state for this action")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Borrowers

func (r *Repo) CreateBorrower(ctx context.Context, b *models.Borrower) error {
	err := r.DB.WithContext(ctx).Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *Repo) FindBorrowerByEmail(ctx context.Context, email string) (*models.Borrower, error) {
	var b models.Borrower
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) TouchBorrowerLogin(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Borrower{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC()).Error
}

// Librarians

func (r *Repo) CreateLibrarian(ctx context.Context, l *models.Librarian) error {
	err := r.DB.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *Repo) FindLibrarianByEmail(ctx context.Context, email string) (*models.Librarian, error) {
	var l models.Librarian
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) TouchLibrarianLogin(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Librarian{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC()).Error
}
