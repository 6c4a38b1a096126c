package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TuteeID uuid.UUID `gorm:"type:uuid;not null;index" json:"tutee_id"`

	Title            string `gorm:"size:255;not null" json:"title"`
	Subject          string `gorm:"size:100;not null;index" json:"subject"`
	Description      string `gorm:"type:text" json:"description"`
	BudgetRange      string `gorm:"size:100" json:"budget_range"`
	LevelOfEducation string `gorm:"size:100" json:"level_of_education"`

	Tutee Tutee `gorm:"foreignkey:TuteeID" json:"tutee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
