package Audit

import (
	"log"

	"AutoWash/Models"

	"gorm.io/gorm"
)

// Recorder writes audit events to the admin log without blocking the
// operation being audited. Events are queued on a buffered channel and
// inserted by a single background writer; if the buffer is full or the
// insert fails the event is dropped with a log line.
type Recorder struct {
	db     *gorm.DB
	events chan Models.AdminLog
	done   chan struct{}
}

// NewRecorder creates a recorder and starts its background writer
func NewRecorder(db *gorm.DB) *Recorder {
	r := &Recorder{
		db:     db,
		events: make(chan Models.AdminLog, 256),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	for event := range r.events {
		if err := r.db.Create(&event).Error; err != nil {
			log.Printf("Failed to write audit log entry %q: %v", event.Action, err)
		}
	}
	close(r.done)
}

// Record queues an audit event. It never blocks and never reports failure
// to the caller.
func (r *Recorder) Record(userID uint, action, ipAddress, details string) {
	entry := Models.AdminLog{
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
		Details:   details,
	}
	select {
	case r.events <- entry:
	default:
		log.Printf("Audit buffer full, dropping entry %q", action)
	}
}

// Close drains the queue and stops the background writer. Intended for
// shutdown and tests.
func (r *Recorder) Close() {
	close(r.events)
	<-r.done
}
