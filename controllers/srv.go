package controllers

import (
	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/db"
	"Gin_postgres_library_manager/token"

	"github.com/gin-gonic/gin"
)

// Srv bundles what every controller needs.
type Srv struct {
	Repo   *db.Repo
	Tokens *token.Issuer
	Cfg    app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:   db.NewRepo(a.DB),
		Tokens: a.Tokens,
		Cfg:    a.Config,
	}
}

// principalID reads the id RequireRole stored in the context.
func principalID(c *gin.Context) string {
	v, _ := c.Get(app.CtxPrincipalID)
	id, _ := v.(string)
	return id
}
