package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request decisions are terminal: pending -> accepted | declined.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

type SessionRequest struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TuteeID uuid.UUID `gorm:"type:uuid;not null;index" json:"tutee_id"`
	TutorID uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`

	Subject          string    `gorm:"size:100;not null" json:"subject"`
	Details          string    `gorm:"type:text" json:"details"`
	LevelOfEducation string    `gorm:"size:100" json:"level_of_education"`
	CourseName       string    `gorm:"size:255" json:"course_name"`
	DurationMinutes  int       `gorm:"not null" json:"duration_minutes"`
	Cost             float64   `gorm:"type:numeric(10,2)" json:"cost"`
	Date             time.Time `gorm:"not null" json:"date"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Tutee Tutee `gorm:"foreignkey:TuteeID" json:"tutee,omitempty"`
	Tutor Tutor `gorm:"foreignkey:TutorID" json:"tutor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *SessionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestStatusPending
	}
	return nil
}

func (r *SessionRequest) Decided() bool {
	return r.Status != RequestStatusPending
}
