package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is stored once and joined into both the tutor's and the tutee's
// profile views at read time. One review per (tutee, tutor) pair.
type Review struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TuteeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_tutee_tutor" json:"tutee_id"`
	TutorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_tutee_tutor" json:"tutor_id"`

	Recommend   bool   `json:"recommend"`
	Description string `gorm:"type:text" json:"description"`
	Rating      int    `gorm:"not null" json:"rating"`

	Tutee Tutee `gorm:"foreignkey:TuteeID" json:"tutee,omitempty"`
	Tutor Tutor `gorm:"foreignkey:TutorID" json:"tutor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
