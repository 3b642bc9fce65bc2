package Models

import (
	"gorm.io/gorm"
)

// Service represents a wash package offered to customers
type Service struct {
	gorm.Model
	Name            string  `json:"name" gorm:"size:100"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes" gorm:"default:30"`
}
