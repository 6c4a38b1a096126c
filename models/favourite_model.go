package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavouriteTutor is a tutee's saved reference to a tutor. The unique index
// makes add idempotent; remove deletes the row.
type FavouriteTutor struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TuteeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_tutors_pair" json:"tutee_id"`
	TutorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_tutors_pair" json:"tutor_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *FavouriteTutor) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FavouritePost is a tutor's saved reference to a tutee post.
type FavouritePost struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TutorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_posts_pair" json:"tutor_id"`
	PostID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_posts_pair" json:"post_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *FavouritePost) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
