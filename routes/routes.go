package routes

import (
	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/controllers"
	"Gin_postgres_library_manager/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	accountCtl := controllers.NewAccountController(s)
	bookCtl := controllers.NewBookController(s)
	borrowCtl := controllers.NewBorrowController(s)

	borrowerMW := app.RequireRole(a.Tokens, models.RoleBorrower)
	librarianMW := app.RequireRole(a.Tokens, models.RoleLibrarian)

	// ------------------------------
	// Accounts (public)
	// ------------------------------
	borrower := r.Group("/borrower")
	{
		borrower.POST("/register", accountCtl.RegisterBorrower)
		borrower.POST("/login", accountCtl.LoginBorrower)
	}
	librarian := r.Group("/librarian")
	{
		librarian.POST("/register", accountCtl.RegisterLibrarian)
		librarian.POST("/login", accountCtl.LoginLibrarian)
	}

	// ------------------------------
	// Catalog
	// ------------------------------
	r.GET("/books", bookCtl.ListBooks) // ?q= filters title/author/isbn
	books := r.Group("/books", librarianMW)
	{
		books.POST("", bookCtl.AddBook)
		books.PUT("/:id", bookCtl.UpdateBook)
		books.DELETE("/:id", bookCtl.DeleteBook)
	}

	// ------------------------------
	// Borrowing workflow
	// ------------------------------
	r.POST("/borrow", borrowerMW, borrowCtl.Request)
	r.GET("/borrow/requests", librarianMW, borrowCtl.Requests)
	r.POST("/borrow/approve", librarianMW, borrowCtl.Approve)
	r.POST("/return", librarianMW, borrowCtl.Return)

	r.GET("/borrower/my-books", borrowerMW, borrowCtl.MyBooks)
	r.POST("/borrower/request-return", borrowerMW, borrowCtl.RequestReturn)
}
