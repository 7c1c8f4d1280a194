package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/db"
	"Gin_postgres_library_manager/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// GET /books?q=
func (bc *BookController) ListBooks(c *gin.Context) {
	rows, err := bc.Repo.ListBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type addBookRequest struct {
	ISBN     string `json:"isbn" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// POST /books
func (bc *BookController) AddBook(c *gin.Context) {
	var in addBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b := &models.Book{
		ID:              uuid.NewString(),
		ISBN:            in.ISBN,
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		TotalCopies:     in.Quantity,
		AvailableCopies: in.Quantity,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "book added"})
}

type updateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	TotalCopies int    `json:"totalCopies" binding:"required,gt=0"`
}

// PUT /books/:id
func (bc *BookController) UpdateBook(c *gin.Context) {
	var in updateBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	_, err := bc.Repo.UpdateBook(c.Request.Context(), c.Param("id"), db.UpdateBookInput{
		ISBN:        in.ISBN,
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		TotalCopies: in.TotalCopies,
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
	case errors.Is(err, db.ErrTotalBelowBorrowed):
		c.JSON(http.StatusBadRequest, app.H{"error": "total cannot be less than borrowed amount"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"message": "book updated"})
	}
}

// DELETE /books/:id
func (bc *BookController) DeleteBook(c *gin.Context) {
	err := bc.Repo.DeleteBook(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
	case errors.Is(err, db.ErrCopiesOutstanding):
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete: copies are currently borrowed"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"message": "book deleted"})
	}
}
