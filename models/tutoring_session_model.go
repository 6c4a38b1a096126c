package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TutoringSession exists only as the result of an accepted SessionRequest.
// The unique RequestID column guarantees at most one session per request
// even if two acceptances race.
type TutoringSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;unique" json:"request_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	TuteeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutee_id"`

	HourlyRate      float64   `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Date            time.Time `gorm:"not null" json:"date"`
	Completed       bool      `gorm:"default:false" json:"completed"`

	ReceiptURL *string `gorm:"size:255" json:"receipt_url"`

	Request SessionRequest `gorm:"foreignkey:RequestID" json:"request,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TutoringSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
