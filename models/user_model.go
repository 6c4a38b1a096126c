package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FirstName   string    `gorm:"size:100" json:"first_name"`
	LastName    string    `gorm:"size:100" json:"last_name"`
	Username    string    `gorm:"size:100;not null;unique" json:"username"`
	Email       string    `gorm:"size:255;not null;unique" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	PhoneNumber *string   `gorm:"size:30" json:"phone_number"`

	UnitNumber   *string `gorm:"size:20" json:"unit_number"`
	StreetNumber *string `gorm:"size:20" json:"street_number"`
	StreetName   *string `gorm:"size:255" json:"street_name"`
	City         *string `gorm:"size:100" json:"city"`
	Province     *string `gorm:"size:100" json:"province"`
	Country      *string `gorm:"size:100" json:"country"`
	PostalCode   *string `gorm:"size:20" json:"postal_code"`

	IsAdmin    bool `gorm:"default:false" json:"is_admin"`
	IsTutor    bool `gorm:"default:false" json:"is_tutor"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	TutorID *uuid.UUID `gorm:"type:uuid" json:"tutor_id"`
	TuteeID *uuid.UUID `gorm:"type:uuid" json:"tutee_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
