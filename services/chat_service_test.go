package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/studyconnect/tutorhub/models"
)

func TestGetOrCreateRoomIdempotent(t *testing.T) {
	f := newFixture(t)

	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	again, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if room.ID != again.ID {
		t.Fatalf("same pair produced two rooms: %s vs %s", room.ID, again.ID)
	}
	if n := countRows(t, f.db, &models.ChatRoom{}, "tutor_id = ? AND tutee_id = ?", f.tutor.ID, f.tutee.ID); n != 1 {
		t.Fatalf("got %d rooms for the pair, want 1", n)
	}
}

func TestGetOrCreateRoomConvergesOnExistingRow(t *testing.T) {
	f := newFixture(t)

	seeded := models.ChatRoom{TutorID: f.tutor.ID, TuteeID: f.tutee.ID}
	if err := f.db.Create(&seeded).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}

	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("get room over existing row: %v", err)
	}
	if room.ID != seeded.ID {
		t.Fatalf("got room %s, want the pre-existing %s", room.ID, seeded.ID)
	}
	if n := countRows(t, f.db, &models.ChatRoom{}, "tutor_id = ? AND tutee_id = ?", f.tutor.ID, f.tutee.ID); n != 1 {
		t.Fatalf("got %d rooms for the pair, want 1", n)
	}
}

func TestGetOrCreateRoomUnknownProfiles(t *testing.T) {
	f := newFixture(t)
	if _, err := GetOrCreateRoom(f.db, uuid.New(), f.tutee.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tutor: got %v, want ErrNotFound", err)
	}
	if _, err := GetOrCreateRoom(f.db, f.tutor.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tutee: got %v, want ErrNotFound", err)
	}
}

func TestAppendMessageOrdering(t *testing.T) {
	f := newFixture(t)
	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	contents := []string{"Hi, are you free on Tuesday?", "Yes, after 4pm.", "Great, I'll send a request."}
	roles := []string{models.SenderRoleTutee, models.SenderRoleTutor, models.SenderRoleTutee}
	senders := []uuid.UUID{f.tutee.ID, f.tutor.ID, f.tutee.ID}
	for i := range contents {
		if _, err := AppendMessage(f.db, room.ID, roles[i], senders[i], contents[i]); err != nil {
			t.Fatalf("append message %d: %v", i, err)
		}
	}

	messages, err := ListMessages(f.db, room.ID, 0, 0)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, msg := range messages {
		if msg.Content != contents[i] {
			t.Fatalf("message %d = %q, want %q", i, msg.Content, contents[i])
		}
		if i > 0 && msg.CreatedAt.Before(messages[i-1].CreatedAt) {
			t.Fatalf("message %d timestamp precedes message %d", i, i-1)
		}
	}

	var refreshed models.ChatRoom
	if err := f.db.First(&refreshed, "id = ?", room.ID).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if refreshed.LastMessageAt.Before(messages[2].CreatedAt) {
		t.Fatalf("room recency marker was not bumped by the last message")
	}
}

func TestAppendMessageRejections(t *testing.T) {
	f := newFixture(t)
	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := AppendMessage(f.db, room.ID, models.SenderRoleTutee, f.tutee.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank content: got %v, want ErrValidation", err)
	}
	if _, err := AppendMessage(f.db, room.ID, "moderator", f.tutee.ID, "hello"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown role: got %v, want ErrValidation", err)
	}
	if _, err := AppendMessage(f.db, room.ID, models.SenderRoleTutor, f.tutee.ID, "hello"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("impersonated tutor: got %v, want ErrForbidden", err)
	}
	if _, err := AppendMessage(f.db, uuid.New(), models.SenderRoleTutee, f.tutee.ID, "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown room: got %v, want ErrNotFound", err)
	}
}

func TestListRoomsWithCounterparts(t *testing.T) {
	f := newFixture(t)
	otherTutorUser := createUser(t, f.db, "carol")
	otherTutor := createTutor(t, f.db, otherTutorUser, 60)

	first, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create first room: %v", err)
	}
	second, err := GetOrCreateRoom(f.db, otherTutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create second room: %v", err)
	}
	if _, err := AppendMessage(f.db, first.ID, models.SenderRoleTutee, f.tutee.ID, "hello"); err != nil {
		t.Fatalf("append message: %v", err)
	}

	views, err := ListRoomsForTutee(f.db, f.tutee.ID)
	if err != nil {
		t.Fatalf("list tutee rooms: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d rooms, want 2", len(views))
	}
	// The room with the fresh message sorts first.
	if views[0].Room.ID != first.ID {
		t.Fatalf("rooms not sorted by recent activity")
	}
	if views[0].Counterpart.ProfileID != f.tutor.ID {
		t.Fatalf("counterpart of first room = %s, want tutor %s", views[0].Counterpart.ProfileID, f.tutor.ID)
	}
	if views[0].Counterpart.Username == "" {
		t.Fatalf("counterpart summary missing user info")
	}

	tutorViews, err := ListRoomsForTutor(f.db, otherTutor.ID)
	if err != nil {
		t.Fatalf("list tutor rooms: %v", err)
	}
	if len(tutorViews) != 1 || tutorViews[0].Room.ID != second.ID {
		t.Fatalf("tutor room listing wrong: %+v", tutorViews)
	}
}

func TestListRoomsSkipsDanglingCounterpart(t *testing.T) {
	f := newFixture(t)
	otherTutorUser := createUser(t, f.db, "carol")
	otherTutor := createTutor(t, f.db, otherTutorUser, 60)

	kept, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create first room: %v", err)
	}
	if _, err := GetOrCreateRoom(f.db, otherTutor.ID, f.tutee.ID); err != nil {
		t.Fatalf("create second room: %v", err)
	}

	// Remove one tutor profile out from under its room. The surviving
	// participant's listing must still work.
	if err := f.db.Delete(&models.Tutor{}, "id = ?", otherTutor.ID).Error; err != nil {
		t.Fatalf("delete tutor profile: %v", err)
	}

	views, err := ListRoomsForTutee(f.db, f.tutee.ID)
	if err != nil {
		t.Fatalf("list tutee rooms with dangling counterpart: %v", err)
	}
	if len(views) != 1 || views[0].Room.ID != kept.ID {
		t.Fatalf("got %d rooms, want only the intact room %s", len(views), kept.ID)
	}

	if err := f.db.Delete(&models.Tutee{}, "id = ?", f.tutee.ID).Error; err != nil {
		t.Fatalf("delete tutee profile: %v", err)
	}
	tutorViews, err := ListRoomsForTutor(f.db, f.tutor.ID)
	if err != nil {
		t.Fatalf("list tutor rooms with dangling counterpart: %v", err)
	}
	if len(tutorViews) != 0 {
		t.Fatalf("got %d rooms, want 0 after the tutee profile is gone", len(tutorViews))
	}
}

func TestDeleteRoomsForProfile(t *testing.T) {
	f := newFixture(t)
	otherTutorUser := createUser(t, f.db, "carol")
	otherTutor := createTutor(t, f.db, otherTutorUser, 60)

	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := AppendMessage(f.db, room.ID, models.SenderRoleTutee, f.tutee.ID, "hello"); err != nil {
		t.Fatalf("append message: %v", err)
	}
	other, err := GetOrCreateRoom(f.db, otherTutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create other room: %v", err)
	}

	if err := DeleteRoomsForTutor(f.db, f.tutor.ID); err != nil {
		t.Fatalf("delete tutor rooms: %v", err)
	}
	if n := countRows(t, f.db, &models.ChatRoom{}, "tutor_id = ?", f.tutor.ID); n != 0 {
		t.Fatalf("got %d rooms left for the tutor, want 0", n)
	}
	if n := countRows(t, f.db, &models.Message{}, "chat_room_id = ?", room.ID); n != 0 {
		t.Fatalf("got %d orphaned messages, want 0", n)
	}
	// Rooms of other tutors are untouched.
	if n := countRows(t, f.db, &models.ChatRoom{}, "id = ?", other.ID); n != 1 {
		t.Fatalf("unrelated room was deleted")
	}

	if err := DeleteRoomsForTutee(f.db, f.tutee.ID); err != nil {
		t.Fatalf("delete tutee rooms: %v", err)
	}
	if n := countRows(t, f.db, &models.ChatRoom{}, "tutee_id = ?", f.tutee.ID); n != 0 {
		t.Fatalf("got %d rooms left for the tutee, want 0", n)
	}
}

func TestDeleteRoomRemovesMessages(t *testing.T) {
	f := newFixture(t)
	room, err := GetOrCreateRoom(f.db, f.tutor.ID, f.tutee.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := AppendMessage(f.db, room.ID, models.SenderRoleTutee, f.tutee.ID, "hello"); err != nil {
		t.Fatalf("append message: %v", err)
	}

	if err := DeleteRoom(f.db, room.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if n := countRows(t, f.db, &models.Message{}, "chat_room_id = ?", room.ID); n != 0 {
		t.Fatalf("got %d orphaned messages after delete, want 0", n)
	}

	if err := DeleteRoom(f.db, room.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing room: got %v, want ErrNotFound", err)
	}
}
