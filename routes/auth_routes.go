package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func AuthRoutes(app *fiber.App, h *handlers.Handler, rdb *redis.Client) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(rdb, "auth_register", 10, time.Minute), h.RegisterUser)
	auth.Post("/login", middleware.RateLimit(rdb, "auth_login", 20, time.Minute), h.LoginUser)
	auth.Get("/me", middleware.Protected(), h.Me)
}
