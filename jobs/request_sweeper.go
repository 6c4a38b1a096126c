package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
)

const staleRequestAge = 30 * 24 * time.Hour

// SweepStaleRequests declines pending session requests that nobody has
// acted on for a month, so tutee dashboards do not fill up with dead
// requests. Declining through the normal status column keeps the lifecycle
// invariant: no session is ever created for these.
func SweepStaleRequests(db *gorm.DB) {
	cutoff := time.Now().Add(-staleRequestAge)

	result := db.Model(&models.SessionRequest{}).
		Where("status = ? AND created_at < ?", models.RequestStatusPending, cutoff).
		Update("status", models.RequestStatusDeclined)
	if result.Error != nil {
		log.Printf("🔥 Stale request sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Declined %d stale session requests.", result.RowsAffected)
	}
}
