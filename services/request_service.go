package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
)

type SessionRequestInput struct {
	Subject          string
	Details          string
	LevelOfEducation string
	CourseName       string
	DurationMinutes  int
	Cost             float64
	Date             time.Time
}

// CreateSessionRequest records a pending request from a tutee to a tutor.
// Both profiles must exist. The tutor's incoming and the tutee's outgoing
// lists are derived by query, so this is a single insert.
func CreateSessionRequest(db *gorm.DB, tuteeID, tutorID uuid.UUID, in SessionRequestInput) (*models.SessionRequest, error) {
	if in.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	var request models.SessionRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		var tutee models.Tutee
		if err := tx.First(&tutee, "id = ?", tuteeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutee profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		var tutor models.Tutor
		if err := tx.First(&tutor, "id = ?", tutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		request = models.SessionRequest{
			TuteeID:          tuteeID,
			TutorID:          tutorID,
			Subject:          in.Subject,
			Details:          in.Details,
			LevelOfEducation: in.LevelOfEducation,
			CourseName:       in.CourseName,
			DurationMinutes:  in.DurationMinutes,
			Cost:             in.Cost,
			Date:             in.Date,
			Status:           models.RequestStatusPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

type DecisionResult struct {
	Request *models.SessionRequest  `json:"request"`
	Session *models.TutoringSession `json:"session,omitempty"`
}

// DecideSessionRequest applies a terminal decision to a pending request.
// Re-applying the same decision is a no-op that returns the existing state;
// applying the opposite decision to an already-decided request is a
// Conflict. Accepting creates exactly one TutoringSession snapshotting the
// tutor's current hourly rate; the unique request_id column backstops the
// no-duplicate guarantee if two acceptances race past the status check.
func DecideSessionRequest(db *gorm.DB, requestID uuid.UUID, accept bool) (*DecisionResult, error) {
	var result DecisionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var request models.SessionRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: session request", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		wanted := models.RequestStatusDeclined
		if accept {
			wanted = models.RequestStatusAccepted
		}

		if request.Decided() {
			if request.Status != wanted {
				return fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
			}
			result.Request = &request
			if request.Status == models.RequestStatusAccepted {
				var session models.TutoringSession
				if err := tx.First(&session, "request_id = ?", request.ID).Error; err != nil {
					return fmt.Errorf("%w: %v", ErrStore, err)
				}
				result.Session = &session
			}
			return nil
		}

		request.Status = wanted
		if err := tx.Model(&request).Update("status", wanted).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		result.Request = &request

		if !accept {
			return nil
		}

		var tutor models.Tutor
		if err := tx.First(&tutor, "id = ?", request.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		session := models.TutoringSession{
			RequestID:       request.ID,
			TutorID:         request.TutorID,
			TuteeID:         request.TuteeID,
			HourlyRate:      tutor.HourlyRate,
			DurationMinutes: request.DurationMinutes,
			Date:            request.Date,
			Completed:       false,
		}
		if err := tx.Create(&session).Error; err != nil {
			if !isDuplicateKey(err) {
				return fmt.Errorf("%w: %v", ErrStore, err)
			}
			// A racing accept already created the session for this
			// request. Converge on that row instead of failing.
			if err := tx.First(&session, "request_id = ?", request.ID).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrStore, err)
			}
		}
		result.Session = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteSession marks a scheduled session completed. Irreversible;
// completing an already-completed session is a no-op.
func CompleteSession(db *gorm.DB, sessionID uuid.UUID) (*models.TutoringSession, error) {
	var session models.TutoringSession
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutoring session", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if session.Completed {
			return nil
		}
		session.Completed = true
		if err := tx.Model(&session).Update("completed", true).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListRequestsForTutor returns the tutor's incoming requests, newest first.
func ListRequestsForTutor(db *gorm.DB, tutorID uuid.UUID) ([]models.SessionRequest, error) {
	var requests []models.SessionRequest
	err := db.Preload("Tutee.User").
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return requests, nil
}

// ListRequestsForTutee returns the tutee's outgoing requests, newest first.
func ListRequestsForTutee(db *gorm.DB, tuteeID uuid.UUID) ([]models.SessionRequest, error) {
	var requests []models.SessionRequest
	err := db.Preload("Tutor.User").
		Where("tutee_id = ?", tuteeID).
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return requests, nil
}

// ListSessionsForTutor returns the tutor's sessions filtered by completion.
func ListSessionsForTutor(db *gorm.DB, tutorID uuid.UUID, completed bool) ([]models.TutoringSession, error) {
	var sessions []models.TutoringSession
	err := db.Where("tutor_id = ? AND completed = ?", tutorID, completed).
		Order("date desc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return sessions, nil
}

// ListSessionsForTutee returns the tutee's sessions filtered by completion.
func ListSessionsForTutee(db *gorm.DB, tuteeID uuid.UUID, completed bool) ([]models.TutoringSession, error) {
	var sessions []models.TutoringSession
	err := db.Where("tutee_id = ? AND completed = ?", tuteeID, completed).
		Order("date desc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return sessions, nil
}
