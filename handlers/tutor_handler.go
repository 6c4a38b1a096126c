package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/services"
	"github.com/studyconnect/tutorhub/utils"
)

type TutorProfileRequest struct {
	Headline            *string  `json:"headline"`
	Bio                 string   `json:"bio" validate:"required"`
	SkillLevel          *string  `json:"skill_level"`
	Expertise           *string  `json:"expertise"`
	HourlyRate          float64  `json:"hourly_rate" validate:"required,gt=0"`
	Subjects            []string `json:"subjects"`
	Languages           []string `json:"languages"`
	LanguageProficiency []string `json:"language_proficiency"`
	TranscriptURLs      []string `json:"transcript_urls"`
	City                *string  `json:"city"`
	Province            *string  `json:"province"`
	Country             *string  `json:"country"`
}

// CreateTutorProfile creates the authenticated user's tutor profile and
// links it to the account in one transaction.
func (h *Handler) CreateTutorProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req TutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if user.TutorID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tutor profile already exists"})
	}

	bio := req.Bio
	tutor := models.Tutor{
		UserID:              user.ID,
		Headline:            req.Headline,
		Bio:                 &bio,
		SkillLevel:          req.SkillLevel,
		Expertise:           req.Expertise,
		HourlyRate:          req.HourlyRate,
		Subjects:            req.Subjects,
		Languages:           req.Languages,
		LanguageProficiency: req.LanguageProficiency,
		TranscriptURLs:      req.TranscriptURLs,
		City:                req.City,
		Province:            req.Province,
		Country:             req.Country,
		IsAvailable:         true,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tutor).Error; err != nil {
			return err
		}
		return tx.Model(user).Updates(map[string]interface{}{
			"tutor_id": tutor.ID,
			"is_tutor": true,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tutor profile already exists"})
		}
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "tutor": tutor})
}

type UpdateTutorProfileRequest struct {
	Headline        *string  `json:"headline"`
	Bio             *string  `json:"bio"`
	SkillLevel      *string  `json:"skill_level"`
	Expertise       *string  `json:"expertise"`
	HourlyRate      *float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
	Subjects        []string `json:"subjects"`
	Languages       []string `json:"languages"`
	TranscriptURLs  []string `json:"transcript_urls"`
	ProfileImageURL *string  `json:"profile_image_url"`
	IsAvailable     *bool    `json:"is_available"`
}

func (h *Handler) UpdateTutorProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	var req UpdateTutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var tutor models.Tutor
	if err := h.DB.First(&tutor, "id = ?", *user.TutorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	if req.Headline != nil {
		tutor.Headline = req.Headline
	}
	if req.Bio != nil {
		tutor.Bio = req.Bio
	}
	if req.SkillLevel != nil {
		tutor.SkillLevel = req.SkillLevel
	}
	if req.Expertise != nil {
		tutor.Expertise = req.Expertise
	}
	if req.HourlyRate != nil {
		tutor.HourlyRate = *req.HourlyRate
	}
	if req.Subjects != nil {
		tutor.Subjects = req.Subjects
	}
	if req.Languages != nil {
		tutor.Languages = req.Languages
	}
	if req.TranscriptURLs != nil {
		tutor.TranscriptURLs = req.TranscriptURLs
	}
	if req.ProfileImageURL != nil {
		tutor.ProfileImageURL = req.ProfileImageURL
	}
	if req.IsAvailable != nil {
		tutor.IsAvailable = *req.IsAvailable
	}

	if err := h.DB.Save(&tutor).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": user, "tutor": tutor})
}

// DeleteTutorProfile removes the profile and unlinks it from the account.
func (h *Handler) DeleteTutorProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.DeleteRoomsForTutor(tx, *user.TutorID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Tutor{}, "id = ?", *user.TutorID).Error; err != nil {
			return err
		}
		return tx.Model(user).Updates(map[string]interface{}{
			"tutor_id": nil,
			"is_tutor": false,
		}).Error
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tutor profile deleted"})
}

// GetTutor is the public tutor page: profile joined with the owning user.
func (h *Handler) GetTutor(c *fiber.Ctx) error {
	var tutor models.Tutor
	if err := h.DB.Preload("User").First(&tutor, "id = ?", c.Params("tutorId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No tutor found"})
		}
		return fail(c, err)
	}
	return c.JSON(tutor)
}

// ListTutors returns all tutors with user info, optionally filtered to
// those teaching any of the comma-separated subjects.
func (h *Handler) ListTutors(c *fiber.Ctx) error {
	query := h.DB.Preload("User").Order("created_at desc")

	if raw := c.Query("subjects"); raw != "" {
		subjects := utils.SplitCSV(raw)
		if len(subjects) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No subjects given"})
		}
		query = query.Where("subjects && ?", pq.Array(subjects))
	}

	var tutors []models.Tutor
	if err := query.Find(&tutors).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(tutors)
}

// Favourite posts.

func (h *Handler) AddFavouritePost(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	if err := services.AddFavouritePost(h.DB, *user.TutorID, postID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post added to favourites"})
}

func (h *Handler) RemoveFavouritePost(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	if err := services.RemoveFavouritePost(h.DB, *user.TutorID, postID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListFavouritePosts(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	posts, err := services.ListFavouritePosts(h.DB, *user.TutorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// Reviews, tutor-side read.

func (h *Handler) ListTutorReviews(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}
	reviews, err := services.ListTutorReviews(h.DB, tutorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}

// Incoming requests and sessions for the authenticated tutor.

func (h *Handler) ListIncomingRequests(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	requests, err := services.ListRequestsForTutor(h.DB, *user.TutorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(requests)
}

func (h *Handler) ListTutorSessions(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	completed := c.Query("completed", "false") == "true"
	sessions, err := services.ListSessionsForTutor(h.DB, *user.TutorID, completed)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}
