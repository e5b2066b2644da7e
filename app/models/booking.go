package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// CartItem is one line of a cart: a menu item with a quantity.
// Quantities are always >= 1; a quantity pushed to 0 removes the line.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// Reservation is the single draft under construction for a session.
// Submitting a new one replaces the previous draft.
type Reservation struct {
	TableNumber   int    `json:"tableNumber"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // slot label, e.g. "19:00"
	Guests        int    `json:"guests"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
	Notes         string `json:"notes,omitempty"`
}

// BookingRecord is the immutable history entry created exactly once,
// at successful payment. The reservation and cart are stored as JSON
// snapshots so later menu or table edits cannot rewrite history.
type BookingRecord struct {
	gorm.Model
	Code            string          `gorm:"uniqueIndex;size:32;not null" json:"code"`
	UserID          uint            `gorm:"index" json:"-"`
	ReservationJSON json.RawMessage `gorm:"column:reservation;type:text;not null" json:"-"`
	CartJSON        json.RawMessage `gorm:"column:cart;type:text;not null" json:"-"`
	Subtotal        float64         `gorm:"not null" json:"subtotal"`
	Tax             float64         `gorm:"not null" json:"tax"`
	Total           float64         `gorm:"not null" json:"total"`
	BookedAt        time.Time       `gorm:"not null;index" json:"timestamp"`
}

// Reservation decodes the stored reservation snapshot.
func (b *BookingRecord) Reservation() (Reservation, error) {
	var r Reservation
	err := json.Unmarshal(b.ReservationJSON, &r)
	return r, err
}

// Cart decodes the stored cart snapshot.
func (b *BookingRecord) Cart() ([]CartItem, error) {
	var items []CartItem
	err := json.Unmarshal(b.CartJSON, &items)
	return items, err
}
