package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tutee carries no attributes of its own beyond the user link. Posts,
// requests, favourites, reviews, and chat rooms all reference it by id and
// are derived by query rather than embedded.
type Tutee struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tutee) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
