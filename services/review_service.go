package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
)

type ReviewInput struct {
	Recommend   bool
	Description string
	Rating      int
}

// CreateReview stores the single authoritative review row for a
// (tutee, tutor) pair. Both profile views read the same row, so there is
// nothing to keep in sync. A second submission for the same pair is a
// Conflict; edits go through UpdateReview.
func CreateReview(db *gorm.DB, tuteeID, tutorID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	var review models.Review
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

		var existing models.Review
		err := tx.Where("tutee_id = ? AND tutor_id = ?", tuteeID, tutorID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: review for this tutor already exists", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		review = models.Review{
			TuteeID:     tuteeID,
			TutorID:     tutorID,
			Recommend:   in.Recommend,
			Description: in.Description,
			Rating:      in.Rating,
		}
		if err := tx.Create(&review).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: review for this tutor already exists", ErrConflict)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits the tutee's existing review of a tutor.
func UpdateReview(db *gorm.DB, reviewID, tuteeID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: review", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if review.TuteeID != tuteeID {
			return fmt.Errorf("%w: review belongs to another tutee", ErrForbidden)
		}

		review.Recommend = in.Recommend
		review.Description = in.Description
		review.Rating = in.Rating
		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListTutorReviews is the tutor-profile view of reviews.
func ListTutorReviews(db *gorm.DB, tutorID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Tutee.User").
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return reviews, nil
}

// ListTuteeReviews is the tutee-profile view: the same rows, filtered by
// author instead of subject.
func ListTuteeReviews(db *gorm.DB, tuteeID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Tutor.User").
		Where("tutee_id = ?", tuteeID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return reviews, nil
}
