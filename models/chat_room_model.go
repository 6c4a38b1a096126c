package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is the single conversation for a (tutor, tutee) pair. The
// composite unique index is what makes get-or-create safe under concurrent
// callers.
type ChatRoom struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TutorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_rooms_pair" json:"tutor_id"`
	TuteeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_rooms_pair" json:"tutee_id"`

	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`

	Messages []Message `json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.LastMessageAt.IsZero() {
		r.LastMessageAt = time.Now()
	}
	return nil
}
