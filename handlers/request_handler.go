package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/notifications"
	"github.com/studyconnect/tutorhub/services"
)

type CreateSessionRequestBody struct {
	TutorID          string  `json:"tutor_id" validate:"required,uuid"`
	Subject          string  `json:"subject" validate:"required"`
	Details          string  `json:"details" validate:"required"`
	LevelOfEducation string  `json:"level_of_education" validate:"required"`
	CourseName       string  `json:"course_name" validate:"required"`
	DurationMinutes  int     `json:"duration_minutes" validate:"required,gt=0"`
	Cost             float64 `json:"cost"`
	Date             string  `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateSessionRequest files a pending request from the authenticated
// tutee to a tutor.
func (h *Handler) CreateSessionRequest(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	var req CreateSessionRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tutorID, _ := uuid.Parse(req.TutorID)
	date, _ := time.Parse(time.RFC3339, req.Date)
	if date.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session date cannot be in the past"})
	}

	request, err := services.CreateSessionRequest(h.DB, *user.TuteeID, tutorID, services.SessionRequestInput{
		Subject:          req.Subject,
		Details:          req.Details,
		LevelOfEducation: req.LevelOfEducation,
		CourseName:       req.CourseName,
		DurationMinutes:  req.DurationMinutes,
		Cost:             req.Cost,
		Date:             date,
	})
	if err != nil {
		return fail(c, err)
	}

	go h.notifyTutorOfRequest(request)

	return c.Status(fiber.StatusCreated).JSON(request)
}

type DecideRequestBody struct {
	Accept *bool `json:"accept" validate:"required"`
}

// DecideRequest lets the receiving tutor accept or decline. Deciding twice
// with the same outcome is a no-op; flipping a decision is a conflict.
func (h *Handler) DecideRequest(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only tutors can decide session requests"})
	}
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req DecideRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.SessionRequest
	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session request not found"})
		}
		return fail(c, err)
	}
	if request.TutorID != *user.TutorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This request was not sent to you"})
	}

	result, err := services.DecideSessionRequest(h.DB, requestID, *req.Accept)
	if err != nil {
		return fail(c, err)
	}

	go h.notifyTuteeOfDecision(result.Request)

	return c.JSON(result)
}

// CompleteSession marks the tutor's session as completed and kicks off
// receipt generation in the background.
func (h *Handler) CompleteSession(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only tutors can complete sessions"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var session models.TutoringSession
	if err := h.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return fail(c, err)
	}
	if session.TutorID != *user.TutorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this session"})
	}

	completed, err := services.CompleteSession(h.DB, sessionID)
	if err != nil {
		return fail(c, err)
	}

	go services.GenerateSessionReceipt(h.DB, completed.ID)

	return c.JSON(completed)
}

// GetSession returns a single session, visible only to its two
// participants.
func (h *Handler) GetSession(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var session models.TutoringSession
	err = h.DB.Preload("Request").First(&session, "id = ?", c.Params("sessionId")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return fail(c, err)
	}
	isTutor := user.TutorID != nil && session.TutorID == *user.TutorID
	isTutee := user.TuteeID != nil && session.TuteeID == *user.TuteeID
	if !isTutor && !isTutee {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant in this session"})
	}
	return c.JSON(session)
}

func (h *Handler) notifyTutorOfRequest(request *models.SessionRequest) {
	var tutor models.Tutor
	if err := h.DB.Preload("User").First(&tutor, "id = ?", request.TutorID).Error; err != nil {
		return
	}
	notifications.SendEmail(
		tutor.User.FirstName,
		tutor.User.Email,
		"New Tutoring Request",
		fmt.Sprintf("<h1>New Request</h1><p>You have a new %s tutoring request. Log in to accept or decline it.</p>", request.Subject),
	)
}

func (h *Handler) notifyTuteeOfDecision(request *models.SessionRequest) {
	var tutee models.Tutee
	if err := h.DB.Preload("User").First(&tutee, "id = ?", request.TuteeID).Error; err != nil {
		return
	}
	subject := "Your Tutoring Request Was Declined"
	body := "<h1>Request Declined</h1><p>Your tutoring request was declined. You can browse other tutors any time.</p>"
	if request.Status == models.RequestStatusAccepted {
		subject = "Your Tutoring Request Was Accepted!"
		body = "<h1>Request Accepted</h1><p>Your tutoring request was accepted and a session has been scheduled.</p>"
	}
	notifications.SendEmail(tutee.User.FirstName, tutee.User.Email, subject, body)
}
