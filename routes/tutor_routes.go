package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func TutorRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Public browsing.
	api.Get("/tutors", h.ListTutors)
	api.Get("/tutors/:tutorId", h.GetTutor)
	api.Get("/tutors/:tutorId/reviews", h.ListTutorReviews)

	tutors := api.Group("/tutors", middleware.Protected())
	tutors.Post("", h.CreateTutorProfile)
	tutors.Put("/me", h.UpdateTutorProfile)
	tutors.Delete("/me", h.DeleteTutorProfile)

	tutors.Get("/me/requests", h.ListIncomingRequests)
	tutors.Get("/me/sessions", h.ListTutorSessions)

	favourites := tutors.Group("/me/favourite-posts")
	favourites.Get("", h.ListFavouritePosts)
	favourites.Post("/:postId", h.AddFavouritePost)
	favourites.Delete("/:postId", h.RemoveFavouritePost)
}
