package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

// POST /borrow
func (bc *BorrowController) Request(c *gin.Context) {
	var in struct {
		BookID string `json:"bookId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	_, err := bc.Repo.RequestBorrow(c.Request.Context(), in.BookID, principalID(c))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
	case errors.Is(err, db.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, app.H{"error": "out of stock"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"message": "request sent"})
	}
}

// GET /borrow/requests
func (bc *BorrowController) Requests(c *gin.Context) {
	rows, err := bc.Repo.ListPendingWork(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// POST /borrow/approve
func (bc *BorrowController) Approve(c *gin.Context) {
	var in struct {
		BorrowID string `json:"borrowId" binding:"required"`
		Days     int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	_, err := bc.Repo.ApproveBorrow(c.Request.Context(), in.BorrowID, principalID(c), in.Days)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "borrowing not found"})
	case errors.Is(err, db.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, app.H{"error": "request is not pending"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"message": "approved"})
	}
}

// POST /return
func (bc *BorrowController) Return(c *gin.Context) {
	var in struct {
		BorrowID string `json:"borrowId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	br, err := bc.Repo.ReturnBorrow(c.Request.Context(), in.BorrowID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "borrowing not found"})
	case errors.Is(err, db.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, app.H{"error": "loan is not open"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		msg := "returned"
		if br.Fine > 0 {
			msg = fmt.Sprintf("returned with fine: %d", br.Fine)
		}
		c.JSON(http.StatusOK, app.H{"message": msg, "fine": br.Fine})
	}
}

// GET /borrower/my-books
func (bc *BorrowController) MyBooks(c *gin.Context) {
	rows, err := bc.Repo.MyActiveLoans(c.Request.Context(), principalID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// POST /borrower/request-return
func (bc *BorrowController) RequestReturn(c *gin.Context) {
	var in struct {
		BorrowID string `json:"borrowId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	err := bc.Repo.RequestReturn(c.Request.Context(), in.BorrowID, principalID(c))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "borrowing not found"})
	case errors.Is(err, db.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, app.H{"error": "loan is not approved"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"message": "return requested"})
	}
}
