package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func AdminRoutes(app *fiber.App, h *handlers.Handler, db *gorm.DB) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired(db))

	users := admin.Group("/users")
	users.Get("", h.GetAllUsers)
	users.Post("", h.RegisterAdminUser)
	users.Get("/:userId", h.GetUser)
	users.Put("/:userId", h.UpdateUser)
	users.Delete("/:userId", h.DeleteUser)
}
