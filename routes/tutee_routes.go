package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func TuteeRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	tutees := api.Group("/tutees", middleware.Protected())
	tutees.Post("", h.CreateTuteeProfile)
	tutees.Delete("/me", h.DeleteTuteeProfile)

	tutees.Get("/me/requests", h.ListOutgoingRequests)
	tutees.Get("/me/sessions", h.ListTuteeSessions)

	favourites := tutees.Group("/me/favourite-tutors")
	favourites.Get("", h.ListFavouriteTutors)
	favourites.Post("/:tutorId", h.AddFavouriteTutor)
	favourites.Delete("/:tutorId", h.RemoveFavouriteTutor)

	reviews := api.Group("/reviews", middleware.Protected())
	reviews.Get("/mine", h.ListMyReviews)
	reviews.Post("/tutor/:tutorId", h.CreateReview)
	reviews.Put("/:reviewId", h.UpdateReview)
}
