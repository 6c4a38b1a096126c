package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Tutor struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`

	Headline   *string `gorm:"size:255" json:"headline"`
	Bio        *string `gorm:"type:text" json:"bio"`
	SkillLevel *string `gorm:"size:100" json:"skill_level"`
	Expertise  *string `gorm:"size:255" json:"expertise"`
	HourlyRate float64 `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`

	Subjects            pq.StringArray `gorm:"type:text[]" json:"subjects"`
	Languages           pq.StringArray `gorm:"type:text[]" json:"languages"`
	LanguageProficiency pq.StringArray `gorm:"type:text[]" json:"language_proficiency"`
	TranscriptURLs      pq.StringArray `gorm:"type:text[]" json:"transcript_urls"`

	ProfileImageURL *string `gorm:"size:255" json:"profile_image_url"`
	IsAvailable     bool    `gorm:"default:true" json:"is_available"`

	Country    *string `gorm:"size:100" json:"country"`
	Street     *string `gorm:"size:255" json:"street"`
	City       *string `gorm:"size:100" json:"city"`
	Province   *string `gorm:"size:100" json:"province"`
	PostalCode *string `gorm:"size:20" json:"postal_code"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tutor) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
