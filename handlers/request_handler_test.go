package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyconnect/tutorhub/database"
	"github.com/studyconnect/tutorhub/middleware"
	"github.com/studyconnect/tutorhub/models"
)

const handlerTestSecret = "handler-test-secret"

func sessionTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", handlerTestSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	h := New(db, nil)
	app := fiber.New()
	app.Get("/sessions/:sessionId", middleware.Protected(), h.GetSession)
	return app, db
}

func signHandlerToken(t *testing.T, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(handlerTestSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func seedSessionUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Session",
		LastName:  "Tester",
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func linkTutorProfile(t *testing.T, db *gorm.DB, user *models.User) *models.Tutor {
	t.Helper()
	tutor := models.Tutor{UserID: user.ID, HourlyRate: 45}
	if err := db.Create(&tutor).Error; err != nil {
		t.Fatalf("create tutor profile: %v", err)
	}
	user.TutorID = &tutor.ID
	user.IsTutor = true
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("link tutor profile: %v", err)
	}
	return &tutor
}

func linkTuteeProfile(t *testing.T, db *gorm.DB, user *models.User) *models.Tutee {
	t.Helper()
	tutee := models.Tutee{UserID: user.ID}
	if err := db.Create(&tutee).Error; err != nil {
		t.Fatalf("create tutee profile: %v", err)
	}
	user.TuteeID = &tutee.ID
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("link tutee profile: %v", err)
	}
	return &tutee
}

// Sessions are visible to their tutor and tutee only; other authenticated
// accounts are turned away.
func TestGetSessionParticipantsOnly(t *testing.T) {
	app, db := sessionTestApp(t)

	tutorUser := seedSessionUser(t, db, "tutor-ann")
	tutor := linkTutorProfile(t, db, tutorUser)
	tuteeUser := seedSessionUser(t, db, "tutee-ben")
	tutee := linkTuteeProfile(t, db, tuteeUser)
	outsider := seedSessionUser(t, db, "outsider-eve")
	linkTuteeProfile(t, db, outsider)

	session := models.TutoringSession{
		RequestID:       uuid.New(),
		TutorID:         tutor.ID,
		TuteeID:         tutee.ID,
		HourlyRate:      45,
		DurationMinutes: 60,
		Date:            time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	cases := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"tutor participant", signHandlerToken(t, tutorUser), fiber.StatusOK},
		{"tutee participant", signHandlerToken(t, tuteeUser), fiber.StatusOK},
		{"unrelated account", signHandlerToken(t, outsider), fiber.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/sessions/"+session.ID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		if resp.StatusCode != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.wantStatus)
		}
	}
}
