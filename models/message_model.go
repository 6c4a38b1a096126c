package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SenderRoleTutor = "tutor"
	SenderRoleTutee = "tutee"
)

// Message is append-only; SenderID is the tutor or tutee profile id
// depending on SenderRole.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ChatRoomID uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_room_id"`
	SenderRole string    `gorm:"size:10;not null" json:"sender_role"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
