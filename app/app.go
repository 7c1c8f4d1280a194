package app

import (
	"Gin_postgres_library_manager/db"
	"Gin_postgres_library_manager/token"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Aliases so handlers stay short.
type Ctx = gin.Context
type H = gin.H

// App aggregates the service's dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Tokens *token.Issuer
	Config Config
}

// Config comes from the environment.
type Config struct {
	WebOrigin string
	JWTSecret string
	Port      string
}

func MustNew() *App {
	cfg := loadConfig()
	dbConn := db.ConnectDB()
	return New(cfg, dbConn)
}

// New wires an App on top of an already-open database. Tests use it with an
// in-memory store.
func New(cfg Config, dbConn *gorm.DB) *App {
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return &App{
		Router: r,
		DB:     dbConn,
		Tokens: token.NewIssuer(cfg.JWTSecret),
		Config: cfg,
	}
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// No fallback secret. A guessable signing key makes every token forgeable.
		log.Fatal("JWT_SECRET is required")
	}
	return Config{
		WebOrigin: get("WEB_ORIGIN", "http://localhost:3000"),
		JWTSecret: secret,
		Port:      get("PORT", "5000"),
	}
}
