package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/db"
	"Gin_postgres_library_manager/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountController struct{ *Srv }

func NewAccountController(s *Srv) *AccountController { return &AccountController{Srv: s} }

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /borrower/register
func (ac *AccountController) RegisterBorrower(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	b := &models.Borrower{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := ac.Repo.CreateBorrower(c.Request.Context(), b); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, app.H{"error": "email already used"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "borrower registered"})
}

// POST /borrower/login
func (ac *AccountController) LoginBorrower(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b, err := ac.Repo.FindBorrowerByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, app.H{"error": "borrower not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "wrong password"})
		return
	}
	tok, err := ac.Tokens.Issue(b.ID, models.RoleBorrower)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = ac.Repo.TouchBorrowerLogin(c.Request.Context(), b.ID) // best effort
	c.JSON(http.StatusOK, app.H{"message": "login success", "token": tok, "name": b.Name})
}

// POST /librarian/register
func (ac *AccountController) RegisterLibrarian(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	l := &models.Librarian{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := ac.Repo.CreateLibrarian(c.Request.Context(), l); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, app.H{"error": "email already used"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "librarian registered"})
}

// POST /librarian/login
func (ac *AccountController) LoginLibrarian(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	l, err := ac.Repo.FindLibrarianByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, app.H{"error": "librarian not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "wrong password"})
		return
	}
	tok, err := ac.Tokens.Issue(l.ID, models.RoleLibrarian)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = ac.Repo.TouchLibrarianLogin(c.Request.Context(), l.ID) // best effort
	c.JSON(http.StatusOK, app.H{"message": "login success", "token": tok, "name": l.Name})
}
