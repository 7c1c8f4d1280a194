package models

import (
	"time"

	"gorm.io/gorm"
)

const BookTable = "lib_books"

const (
	BookAvailable = "available"
	BookBorrowed  = "borrowed"
)

type Book struct {
	ID              string `gorm:"primaryKey;type:uuid" json:"id"`
	ISBN            string `gorm:"column:isbn;size:32;index;not null" json:"isbn"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Author          string `gorm:"size:255" json:"author"`
	Genre           string `gorm:"size:120" json:"genre"`
	TotalCopies     int    `gorm:"not null" json:"totalCopies"`
	AvailableCopies int    `gorm:"not null" json:"availableCopies"`

	// Derived from AvailableCopies on every read, never stored.
	Status string `gorm:"-" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }

func (b *Book) AfterFind(*gorm.DB) error {
	b.Status = StatusOf(b.AvailableCopies)
	return nil
}

func (b *Book) AfterCreate(*gorm.DB) error {
	b.Status = StatusOf(b.AvailableCopies)
	return nil
}

func StatusOf(availableCopies int) string {
	if availableCopies > 0 {
		return BookAvailable
	}
	return BookBorrowed
}
