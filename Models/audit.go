package Models

import (
	"time"
)

// AdminLog is an append-only record of an action taken by a user or admin.
// Rows are written once and never updated or deleted by the application.
type AdminLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"size:255"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	Details   string    `json:"details"`
}
