package CronJobs

import (
	"fmt"
	"log"
	"time"

	"AutoWash/Audit"
	"AutoWash/Models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DailyDigest writes one audit entry per day summarizing booking activity.
// It delivers nothing to anyone; the digest exists purely as an audit-log
// record for the admin dashboard.
type DailyDigest struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	audit          *Audit.Recorder
	runImmediately bool
	jobID          cron.EntryID
}

// NewDailyDigest creates a new digest job
func NewDailyDigest(db *gorm.DB, audit *Audit.Recorder, runImmediately bool) *DailyDigest {
	return &DailyDigest{
		cronScheduler:  cron.New(),
		db:             db,
		audit:          audit,
		runImmediately: runImmediately,
	}
}

// Start schedules the digest to run daily at 1:00 AM
func (d *DailyDigest) Start() error {
	var err error
	d.jobID, err = d.cronScheduler.AddFunc("0 1 * * *", func() {
		log.Println("Running scheduled daily booking digest")
		d.runDigest()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	d.cronScheduler.Start()
	log.Println("Daily digest scheduler started - will run daily at 1:00 AM")

	if d.runImmediately {
		log.Println("Running initial booking digest")
		d.runDigest()
	}
	return nil
}

// Stop terminates the digest scheduler
func (d *DailyDigest) Stop() {
	if d.cronScheduler != nil {
		d.cronScheduler.Stop()
		log.Println("Daily digest scheduler stopped")
	}
}

// runDigest counts the previous day's booking activity and records it
func (d *DailyDigest) runDigest() {
	since := time.Now().Add(-24 * time.Hour)

	var created, completed, cancelled int64
	d.db.Model(&Models.Booking{}).Where("created_at >= ?", since).Count(&created)
	d.db.Model(&Models.Booking{}).
		Where("status = ? AND updated_at >= ?", Models.StatusCompleted, since).Count(&completed)
	d.db.Model(&Models.Booking{}).
		Where("status = ? AND updated_at >= ?", Models.StatusCancelled, since).Count(&cancelled)

	d.audit.Record(0, "Daily Digest", "",
		fmt.Sprintf("Last 24h: %d bookings created, %d completed, %d cancelled", created, completed, cancelled))
	log.Printf("Daily digest recorded: %d created, %d completed, %d cancelled", created, completed, cancelled)
}
