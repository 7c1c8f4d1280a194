package main

import (
	"Gin_postgres_library_manager/app"
	"Gin_postgres_library_manager/routes"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	application := app.MustNew()
	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	log.Printf("listening on :%s", application.Config.Port)
	if err := r.Run(":" + application.Config.Port); err != nil {
		log.Fatal(err)
	}
}
