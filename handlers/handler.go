package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/middleware"
	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/services"
	"github.com/studyconnect/tutorhub/websocket"
)

var validate = validator.New()

// Handler carries the injected collaborators; all route handlers hang off
// it instead of reaching for package globals.
type Handler struct {
	DB  *gorm.DB
	Hub *websocket.Hub
}

func New(db *gorm.DB, hub *websocket.Hub) *Handler {
	return &Handler{DB: db, Hub: hub}
}

// fail maps a service error kind to its HTTP response. Storage failures are
// logged and surfaced as a generic 500 without internals.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[ERROR] %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
}

// currentUser resolves the authenticated user record for this request.
func (h *Handler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := middleware.UserIDFromToken(c)
	if err != nil {
		return nil, services.ErrUnauthenticated
	}
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
