package models

import (
	"time"

	"gorm.io/gorm"
)

// Table statuses.
const (
	TableAvailable = "available"
	TableReserved  = "reserved"
)

// Table is one physical table in the dining room. Status flips to
// reserved when a booking's payment completes and back to available
// once the reserved date has passed.
type Table struct {
	gorm.Model
	Number       int        `gorm:"uniqueIndex;not null" json:"number"`
	Capacity     int        `gorm:"not null" json:"capacity"`
	Status       string     `gorm:"size:20;not null;default:available" json:"status"`
	ReservedFor  *time.Time `gorm:"index" json:"reservedFor,omitempty"`
	ReservedCode string     `gorm:"size:32" json:"-"`
}
