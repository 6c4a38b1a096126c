package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyconnect/tutorhub/models"
)

// CounterpartSummary is the public view of the person on the other side of
// a chat room.
type CounterpartSummary struct {
	ProfileID uuid.UUID `json:"profile_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Headline  *string   `json:"headline,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
}

type RoomView struct {
	Room        models.ChatRoom    `json:"room"`
	Counterpart CounterpartSummary `json:"counterpart"`
}

// GetOrCreateRoom returns the single room for a (tutor, tutee) pair,
// creating it if absent. A concurrent duplicate insert lands on the pair's
// unique index and is resolved by refetching, so both callers observe the
// same room id.
func GetOrCreateRoom(db *gorm.DB, tutorID, tuteeID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := db.Transaction(func(tx *gorm.DB) error {
		var tutor models.Tutor
		if err := tx.First(&tutor, "id = ?", tutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		var tutee models.Tutee
		if err := tx.First(&tutee, "id = ?", tuteeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutee profile", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		room = models.ChatRoom{TutorID: tutorID, TuteeID: tuteeID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&room).Error; err != nil {
			if !isDuplicateKey(err) {
				return fmt.Errorf("%w: %v", ErrStore, err)
			}
		}
		// Either we created it, or the pair already had a room (possibly
		// inserted by a racing caller). Fetch the authoritative row either
		// way, into a fresh struct so the hook-assigned ID from a no-op
		// insert cannot leak into the query conditions.
		var existing models.ChatRoom
		if err := tx.First(&existing, "tutor_id = ? AND tutee_id = ?", tutorID, tuteeID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		room = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// AppendMessage stores a message with a server-assigned timestamp and bumps
// the room's recency marker in the same transaction.
func AppendMessage(db *gorm.DB, roomID uuid.UUID, senderRole string, senderID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if senderRole != models.SenderRoleTutor && senderRole != models.SenderRoleTutee {
		return nil, fmt.Errorf("%w: unknown sender role %q", ErrValidation, senderRole)
	}

	var message models.Message
	err := db.Transaction(func(tx *gorm.DB) error {
		var room models.ChatRoom
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: chat room", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}

		if senderRole == models.SenderRoleTutor && room.TutorID != senderID {
			return fmt.Errorf("%w: sender is not the room's tutor", ErrForbidden)
		}
		if senderRole == models.SenderRoleTutee && room.TuteeID != senderID {
			return fmt.Errorf("%w: sender is not the room's tutee", ErrForbidden)
		}

		now := time.Now()
		message = models.Message{
			ChatRoomID: room.ID,
			SenderRole: senderRole,
			SenderID:   senderID,
			Content:    content,
			CreatedAt:  now,
		}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if err := tx.Model(&room).Update("last_message_at", now).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns a room's messages in insertion order.
func ListMessages(db *gorm.DB, roomID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var room models.ChatRoom
	if err := db.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chat room", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	query := db.Where("chat_room_id = ?", roomID).Order("created_at asc, id asc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return messages, nil
}

// ListRoomsForTutor returns the tutor's rooms sorted by most recent
// activity, each joined with the tutee side's public summary.
func ListRoomsForTutor(db *gorm.DB, tutorID uuid.UUID) ([]RoomView, error) {
	var rooms []models.ChatRoom
	err := db.Where("tutor_id = ?", tutorID).
		Order("last_message_at desc").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		var tutee models.Tutee
		if err := db.Preload("User").First(&tutee, "id = ?", room.TuteeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Counterpart profile was deleted. Hide the room rather
				// than failing the whole listing.
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		views = append(views, RoomView{
			Room: room,
			Counterpart: CounterpartSummary{
				ProfileID: tutee.ID,
				UserID:    tutee.UserID,
				Username:  tutee.User.Username,
				FirstName: tutee.User.FirstName,
				LastName:  tutee.User.LastName,
			},
		})
	}
	return views, nil
}

// ListRoomsForTutee returns the tutee's rooms sorted by most recent
// activity, each joined with the tutor side's public summary.
func ListRoomsForTutee(db *gorm.DB, tuteeID uuid.UUID) ([]RoomView, error) {
	var rooms []models.ChatRoom
	err := db.Where("tutee_id = ?", tuteeID).
		Order("last_message_at desc").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		var tutor models.Tutor
		if err := db.Preload("User").First(&tutor, "id = ?", room.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		views = append(views, RoomView{
			Room: room,
			Counterpart: CounterpartSummary{
				ProfileID: tutor.ID,
				UserID:    tutor.UserID,
				Username:  tutor.User.Username,
				FirstName: tutor.User.FirstName,
				LastName:  tutor.User.LastName,
				Headline:  tutor.Headline,
				ImageURL:  tutor.ProfileImageURL,
			},
		})
	}
	return views, nil
}

// DeleteRoom removes a room and its messages. Failures are reported, never
// swallowed.
func DeleteRoom(db *gorm.DB, roomID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var room models.ChatRoom
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: chat room", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if err := tx.Where("chat_room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if err := tx.Delete(&room).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
}

// DeleteRoomsForTutor removes every room on the tutor's side together with
// its messages. Meant to run inside the transaction that deletes the tutor
// profile, so the surviving participants never see a room pointing at a
// profile that no longer exists.
func DeleteRoomsForTutor(tx *gorm.DB, tutorID uuid.UUID) error {
	return deleteRoomsWhere(tx, "tutor_id = ?", tutorID)
}

// DeleteRoomsForTutee is the tutee-side counterpart of DeleteRoomsForTutor.
func DeleteRoomsForTutee(tx *gorm.DB, tuteeID uuid.UUID) error {
	return deleteRoomsWhere(tx, "tutee_id = ?", tuteeID)
}

func deleteRoomsWhere(tx *gorm.DB, query string, profileID uuid.UUID) error {
	var roomIDs []uuid.UUID
	err := tx.Model(&models.ChatRoom{}).Where(query, profileID).Pluck("id", &roomIDs).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if len(roomIDs) == 0 {
		return nil
	}
	if err := tx.Where("chat_room_id IN ?", roomIDs).Delete(&models.Message{}).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := tx.Where("id IN ?", roomIDs).Delete(&models.ChatRoom{}).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
