package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/services"
)

// CreateTuteeProfile creates the authenticated user's tutee profile and
// links it to the account. A user may hold both a tutor and a tutee
// profile.
func (h *Handler) CreateTuteeProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tutee profile already exists"})
	}

	tutee := models.Tutee{UserID: user.ID}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tutee).Error; err != nil {
			return err
		}
		return tx.Model(user).Update("tutee_id", tutee.ID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tutee profile already exists"})
		}
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "tutee": tutee})
}

func (h *Handler) DeleteTuteeProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.DeleteRoomsForTutee(tx, *user.TuteeID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Tutee{}, "id = ?", *user.TuteeID).Error; err != nil {
			return err
		}
		return tx.Model(user).Update("tutee_id", nil).Error
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tutee profile deleted"})
}

// Favourite tutors.

func (h *Handler) AddFavouriteTutor(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	if err := services.AddFavouriteTutor(h.DB, *user.TuteeID, tutorID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tutor added to favourites"})
}

func (h *Handler) RemoveFavouriteTutor(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	if err := services.RemoveFavouriteTutor(h.DB, *user.TuteeID, tutorID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListFavouriteTutors(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	tutors, err := services.ListFavouriteTutors(h.DB, *user.TuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tutors)
}

// Reviews, tutee-side.

type CreateReviewRequest struct {
	Recommend   bool   `json:"recommend"`
	Description string `json:"description" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
}

func (h *Handler) CreateReview(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := services.CreateReview(h.DB, *user.TuteeID, tutorID, services.ReviewInput{
		Recommend:   req.Recommend,
		Description: req.Description,
		Rating:      req.Rating,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *Handler) UpdateReview(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := services.UpdateReview(h.DB, reviewID, *user.TuteeID, services.ReviewInput{
		Recommend:   req.Recommend,
		Description: req.Description,
		Rating:      req.Rating,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func (h *Handler) ListMyReviews(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	reviews, err := services.ListTuteeReviews(h.DB, *user.TuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}

// Outgoing requests and sessions for the authenticated tutee.

func (h *Handler) ListOutgoingRequests(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	requests, err := services.ListRequestsForTutee(h.DB, *user.TuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(requests)
}

func (h *Handler) ListTuteeSessions(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	completed := c.Query("completed", "false") == "true"
	sessions, err := services.ListSessionsForTutee(h.DB, *user.TuteeID, completed)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}
