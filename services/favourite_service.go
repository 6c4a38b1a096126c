package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyconnect/tutorhub/models"
)

// Favourites are single join rows, never embedded copies. Add is idempotent
// through the pair's unique index; remove deletes the row and is equally
// idempotent.

func AddFavouriteTutor(db *gorm.DB, tuteeID, tutorID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
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

		fav := models.FavouriteTutor{TuteeID: tuteeID, TutorID: tutorID}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
		if err != nil && !isDuplicateKey(err) {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
}

func RemoveFavouriteTutor(db *gorm.DB, tuteeID, tutorID uuid.UUID) error {
	err := db.Where("tutee_id = ? AND tutor_id = ?", tuteeID, tutorID).
		Delete(&models.FavouriteTutor{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// ListFavouriteTutors returns the tutee's saved tutors with user info.
func ListFavouriteTutors(db *gorm.DB, tuteeID uuid.UUID) ([]models.Tutor, error) {
	var tutee models.Tutee
	if err := db.First(&tutee, "id = ?", tuteeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tutee profile", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	var tutors []models.Tutor
	err := db.Preload("User").
		Joins("JOIN favourite_tutors ON favourite_tutors.tutor_id = tutors.id").
		Where("favourite_tutors.tutee_id = ?", tuteeID).
		Order("favourite_tutors.created_at desc").
		Find(&tutors).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return tutors, nil
}

func AddFavouritePost(db *gorm.DB, tutorID, postID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tutor models.Tutor
		if err := tx.First(&tutor, "id = ?", tutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		fav := models.FavouritePost{TutorID: tutorID, PostID: postID}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
		if err != nil && !isDuplicateKey(err) {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
}

func RemoveFavouritePost(db *gorm.DB, tutorID, postID uuid.UUID) error {
	err := db.Where("tutor_id = ? AND post_id = ?", tutorID, postID).
		Delete(&models.FavouritePost{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// ListFavouritePosts returns the tutor's saved posts, most recently saved
// first.
func ListFavouritePosts(db *gorm.DB, tutorID uuid.UUID) ([]models.Post, error) {
	var tutor models.Tutor
	if err := db.First(&tutor, "id = ?", tutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tutor profile", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	var posts []models.Post
	err := db.Joins("JOIN favourite_posts ON favourite_posts.post_id = posts.id").
		Where("favourite_posts.tutor_id = ?", tutorID).
		Order("favourite_posts.created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return posts, nil
}
