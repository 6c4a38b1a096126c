package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
)

type PostInput struct {
	Title            string
	Subject          string
	Description      string
	BudgetRange      string
	LevelOfEducation string
}

// CreatePost stores the single authoritative post row; the author's profile
// view derives its post list by query.
func CreatePost(db *gorm.DB, tuteeID uuid.UUID, in PostInput) (*models.Post, error) {
	if in.Title == "" || in.Subject == "" {
		return nil, fmt.Errorf("%w: title and subject are required", ErrValidation)
	}

	var post models.Post
	err := db.Transaction(func(tx *gorm.DB) error {
		var tutee models.Tutee
		if err := tx.First(&tutee, "id = ?", tuteeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutee profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		post = models.Post{
			TuteeID:          tuteeID,
			Title:            in.Title,
			Subject:          in.Subject,
			Description:      in.Description,
			BudgetRange:      in.BudgetRange,
			LevelOfEducation: in.LevelOfEducation,
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func GetPost(db *gorm.DB, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &post, nil
}

// ListPosts returns posts newest first, optionally filtered by subject or
// author.
func ListPosts(db *gorm.DB, subject string, tuteeID *uuid.UUID) ([]models.Post, error) {
	query := db.Order("created_at desc")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if tuteeID != nil {
		query = query.Where("tutee_id = ?", *tuteeID)
	}
	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return posts, nil
}

func UpdatePost(db *gorm.DB, postID, tuteeID uuid.UUID, in PostInput) (*models.Post, error) {
	var post models.Post
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if post.TuteeID != tuteeID {
			return fmt.Errorf("%w: post belongs to another tutee", ErrForbidden)
		}

		if in.Title != "" {
			post.Title = in.Title
		}
		if in.Subject != "" {
			post.Subject = in.Subject
		}
		if in.Description != "" {
			post.Description = in.Description
		}
		if in.BudgetRange != "" {
			post.BudgetRange = in.BudgetRange
		}
		if in.LevelOfEducation != "" {
			post.LevelOfEducation = in.LevelOfEducation
		}
		if err := tx.Save(&post).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and any favourite references to it in one
// transaction, so no tutor is left holding a dangling favourite.
func DeletePost(db *gorm.DB, postID, tuteeID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if post.TuteeID != tuteeID {
			return fmt.Errorf("%w: post belongs to another tutee", ErrForbidden)
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.FavouritePost{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
}
