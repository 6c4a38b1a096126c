package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func RequestRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	requests := api.Group("/session-requests", middleware.Protected())
	requests.Post("", h.CreateSessionRequest)
	requests.Put("/:requestId/decision", h.DecideRequest)

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/:sessionId", h.GetSession)
	sessions.Post("/:sessionId/complete", h.CompleteSession)
}
