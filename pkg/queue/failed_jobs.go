package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// FailedJobRecord is persisted for every job that exhausts its retries,
// so confirmation emails that never went out can be replayed by hand.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobName  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var (
	failedMu sync.Mutex
	failed   []FailedJobRecord

	failedJobDB *gorm.DB
)

// UseDB persists failed jobs to the database. Call once after the
// database connects:
//
//	queue.UseDB(database.DB)
func UseDB(db *gorm.DB) {
	failedJobDB = db
	db.AutoMigrate(&FailedJobRecord{})
}

// FailedJobs returns a snapshot of failures recorded this process.
func FailedJobs() []FailedJobRecord {
	failedMu.Lock()
	defer failedMu.Unlock()
	out := make([]FailedJobRecord, len(failed))
	copy(out, failed)
	return out
}

func (m *Manager) persistFailed(job Job, lastErr error, attempts int) {
	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}

	record := FailedJobRecord{
		JobName:  job.Name(),
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	failedMu.Lock()
	failed = append(failed, record)
	failedMu.Unlock()

	if failedJobDB == nil {
		return
	}
	if err := failedJobDB.Create(&record).Error; err != nil {
		// Non-fatal, the in-memory snapshot still has it.
		fmt.Printf("queue: persist failed job %s: %v\n", job.Name(), err)
	}
}
