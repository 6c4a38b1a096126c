package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyconnect/tutorhub/database"
	"github.com/studyconnect/tutorhub/models"
)

// newTestDB opens a fresh in-memory database per test. Capping the pool at
// one connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
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

var userSeq int

func createUser(t *testing.T, db *gorm.DB, firstName string) *models.User {
	t.Helper()
	userSeq++
	user := models.User{
		FirstName: firstName,
		LastName:  "Tester",
		Username:  fmt.Sprintf("%s_%d", firstName, userSeq),
		Email:     fmt.Sprintf("%s_%d@example.com", firstName, userSeq),
		Password:  "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", firstName, err)
	}
	return &user
}

func createTutor(t *testing.T, db *gorm.DB, user *models.User, hourlyRate float64) *models.Tutor {
	t.Helper()
	tutor := models.Tutor{
		UserID:     user.ID,
		HourlyRate: hourlyRate,
		Subjects:   []string{"Mathematics"},
	}
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

func createTutee(t *testing.T, db *gorm.DB, user *models.User) *models.Tutee {
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

// fixture wires one tutor and one tutee, the smallest useful marketplace.
type fixture struct {
	db    *gorm.DB
	tutor *models.Tutor
	tutee *models.Tutee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	tutorUser := createUser(t, db, "alice")
	tuteeUser := createUser(t, db, "bob")
	return &fixture{
		db:    db,
		tutor: createTutor(t, db, tutorUser, 45),
		tutee: createTutee(t, db, tuteeUser),
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
