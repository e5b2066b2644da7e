package models

import "gorm.io/gorm"

// Menu categories.
const (
	CategoryAppetizers = "appetizers"
	CategoryMain       = "main"
	CategoryDesserts   = "desserts"
)

// MenuItem is one dish in the catalogue. The flow reads it, never
// writes it; rows come from the seeder.
type MenuItem struct {
	gorm.Model
	Code         string  `gorm:"uniqueIndex;size:32;not null" json:"id"`
	Name         string  `gorm:"size:255;not null;index" json:"name"`
	Price        float64 `gorm:"not null;default:0" json:"price"`
	Category     string  `gorm:"size:32;not null;index" json:"category"`
	IsBestSeller bool    `gorm:"not null;default:false" json:"isBestSeller"`
	Image        string  `gorm:"type:text" json:"image"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
}
