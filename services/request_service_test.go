package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyconnect/tutorhub/models"
)

func calculusRequest(t *testing.T, f *fixture) *models.SessionRequest {
	t.Helper()
	request, err := CreateSessionRequest(f.db, f.tutee.ID, f.tutor.ID, SessionRequestInput{
		Subject:          "Calculus",
		Details:          "Need help preparing for the midterm",
		LevelOfEducation: "University",
		CourseName:       "MATH 101",
		DurationMinutes:  90,
		Cost:             67.5,
		Date:             time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create session request: %v", err)
	}
	return request
}

func TestCreateSessionRequest(t *testing.T) {
	f := newFixture(t)
	request := calculusRequest(t, f)

	if request.Status != models.RequestStatusPending {
		t.Fatalf("new request status = %q, want pending", request.Status)
	}

	incoming, err := ListRequestsForTutor(f.db, f.tutor.ID)
	if err != nil {
		t.Fatalf("list incoming requests: %v", err)
	}
	outgoing, err := ListRequestsForTutee(f.db, f.tutee.ID)
	if err != nil {
		t.Fatalf("list outgoing requests: %v", err)
	}
	if len(incoming) != 1 || len(outgoing) != 1 {
		t.Fatalf("got %d incoming / %d outgoing requests, want 1/1", len(incoming), len(outgoing))
	}
	if incoming[0].ID != outgoing[0].ID {
		t.Fatalf("incoming and outgoing views disagree on the request row")
	}
}

func TestCreateSessionRequestValidation(t *testing.T) {
	f := newFixture(t)
	in := SessionRequestInput{Subject: "Calculus", DurationMinutes: 60, Date: time.Now()}

	_, err := CreateSessionRequest(f.db, f.tutee.ID, f.tutor.ID, SessionRequestInput{DurationMinutes: 60})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing subject: got %v, want ErrValidation", err)
	}

	_, err = CreateSessionRequest(f.db, f.tutee.ID, f.tutor.ID, SessionRequestInput{Subject: "Calculus"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("zero duration: got %v, want ErrValidation", err)
	}

	_, err = CreateSessionRequest(f.db, uuid.New(), f.tutor.ID, in)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tutee: got %v, want ErrNotFound", err)
	}

	_, err = CreateSessionRequest(f.db, f.tutee.ID, uuid.New(), in)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tutor: got %v, want ErrNotFound", err)
	}
}

func TestAcceptRequestCreatesOneSession(t *testing.T) {
	f := newFixture(t)
	request := calculusRequest(t, f)

	result, err := DecideSessionRequest(f.db, request.ID, true)
	if err != nil {
		t.Fatalf("accept request: %v", err)
	}
	if result.Request.Status != models.RequestStatusAccepted {
		t.Fatalf("status after accept = %q, want accepted", result.Request.Status)
	}
	if result.Session == nil {
		t.Fatalf("accept did not produce a session")
	}
	if result.Session.Completed {
		t.Fatalf("new session must start uncompleted")
	}
	if result.Session.HourlyRate != f.tutor.HourlyRate {
		t.Fatalf("session rate = %v, want tutor's rate %v", result.Session.HourlyRate, f.tutor.HourlyRate)
	}
	if result.Session.DurationMinutes != request.DurationMinutes {
		t.Fatalf("session duration = %d, want %d", result.Session.DurationMinutes, request.DurationMinutes)
	}

	// Repeating the same decision is a no-op returning the existing session.
	again, err := DecideSessionRequest(f.db, request.ID, true)
	if err != nil {
		t.Fatalf("repeat accept: %v", err)
	}
	if again.Session == nil || again.Session.ID != result.Session.ID {
		t.Fatalf("repeat accept did not return the original session")
	}
	if n := countRows(t, f.db, &models.TutoringSession{}, "request_id = ?", request.ID); n != 1 {
		t.Fatalf("got %d sessions for the request, want exactly 1", n)
	}

	// Flipping a settled decision is rejected.
	if _, err := DecideSessionRequest(f.db, request.ID, false); !errors.Is(err, ErrConflict) {
		t.Fatalf("decline after accept: got %v, want ErrConflict", err)
	}
}

func TestAcceptConvergesOnExistingSession(t *testing.T) {
	f := newFixture(t)
	request := calculusRequest(t, f)

	// A session row for this request already exists, as if a concurrent
	// accept committed between our status check and our insert.
	seeded := models.TutoringSession{
		RequestID:       request.ID,
		TutorID:         request.TutorID,
		TuteeID:         request.TuteeID,
		HourlyRate:      f.tutor.HourlyRate,
		DurationMinutes: request.DurationMinutes,
		Date:            request.Date,
	}
	if err := f.db.Create(&seeded).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	result, err := DecideSessionRequest(f.db, request.ID, true)
	if err != nil {
		t.Fatalf("accept over existing session: %v", err)
	}
	if result.Session == nil || result.Session.ID != seeded.ID {
		t.Fatalf("accept did not converge on the existing session")
	}
	if n := countRows(t, f.db, &models.TutoringSession{}, "request_id = ?", request.ID); n != 1 {
		t.Fatalf("got %d sessions for the request, want exactly 1", n)
	}
}

func TestDeclineRequestCreatesNoSession(t *testing.T) {
	f := newFixture(t)
	request := calculusRequest(t, f)

	result, err := DecideSessionRequest(f.db, request.ID, false)
	if err != nil {
		t.Fatalf("decline request: %v", err)
	}
	if result.Request.Status != models.RequestStatusDeclined {
		t.Fatalf("status after decline = %q, want declined", result.Request.Status)
	}
	if result.Session != nil {
		t.Fatalf("decline must not create a session")
	}
	if n := countRows(t, f.db, &models.TutoringSession{}, "request_id = ?", request.ID); n != 0 {
		t.Fatalf("got %d sessions after decline, want 0", n)
	}

	if _, err := DecideSessionRequest(f.db, request.ID, false); err != nil {
		t.Fatalf("repeat decline should be a no-op, got %v", err)
	}
	if _, err := DecideSessionRequest(f.db, request.ID, true); !errors.Is(err, ErrConflict) {
		t.Fatalf("accept after decline: got %v, want ErrConflict", err)
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	f := newFixture(t)
	if _, err := DecideSessionRequest(f.db, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCompleteSession(t *testing.T) {
	f := newFixture(t)
	request := calculusRequest(t, f)
	result, err := DecideSessionRequest(f.db, request.ID, true)
	if err != nil {
		t.Fatalf("accept request: %v", err)
	}

	session, err := CompleteSession(f.db, result.Session.ID)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if !session.Completed {
		t.Fatalf("session should be completed")
	}

	// Completing again stays completed.
	session, err = CompleteSession(f.db, session.ID)
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if !session.Completed {
		t.Fatalf("repeat complete lost the completed flag")
	}

	open, err := ListSessionsForTutor(f.db, f.tutor.ID, false)
	if err != nil {
		t.Fatalf("list open sessions: %v", err)
	}
	done, err := ListSessionsForTutee(f.db, f.tutee.ID, true)
	if err != nil {
		t.Fatalf("list completed sessions: %v", err)
	}
	if len(open) != 0 || len(done) != 1 {
		t.Fatalf("got %d open / %d completed sessions, want 0/1", len(open), len(done))
	}
}
