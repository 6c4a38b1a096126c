package jobs

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyconnect/tutorhub/database"
	"github.com/studyconnect/tutorhub/models"
)

func sweeperTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func seedRequest(t *testing.T, db *gorm.DB, status string, age time.Duration) *models.SessionRequest {
	t.Helper()
	request := models.SessionRequest{
		TuteeID:         uuid.New(),
		TutorID:         uuid.New(),
		Subject:         "Biology",
		DurationMinutes: 60,
		Date:            time.Now().Add(72 * time.Hour),
		Status:          status,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	if age > 0 {
		backdated := time.Now().Add(-age)
		if err := db.Model(&request).Update("created_at", backdated).Error; err != nil {
			t.Fatalf("backdate request: %v", err)
		}
	}
	return &request
}

func TestSweepStaleRequests(t *testing.T) {
	db := sweeperTestDB(t)

	stale := seedRequest(t, db, models.RequestStatusPending, 45*24*time.Hour)
	fresh := seedRequest(t, db, models.RequestStatusPending, 0)
	accepted := seedRequest(t, db, models.RequestStatusAccepted, 45*24*time.Hour)

	SweepStaleRequests(db)

	want := map[string]string{
		stale.ID.String():    models.RequestStatusDeclined,
		fresh.ID.String():    models.RequestStatusPending,
		accepted.ID.String(): models.RequestStatusAccepted,
	}
	for id, status := range want {
		var got models.SessionRequest
		if err := db.First(&got, "id = ?", id).Error; err != nil {
			t.Fatalf("reload request %s: %v", id, err)
		}
		if got.Status != status {
			t.Fatalf("request %s status = %q, want %q", id, got.Status, status)
		}
	}
}
