package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func PostRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Public browsing.
	api.Get("/posts", h.ListPosts)
	api.Get("/posts/:postId", h.GetPost)
	api.Get("/tutees/:tuteeId/posts", h.ListTuteePosts)

	posts := api.Group("/posts", middleware.Protected())
	posts.Post("", h.CreatePost)
	posts.Put("/:postId", h.UpdatePost)
	posts.Delete("/:postId", h.DeletePost)
}
