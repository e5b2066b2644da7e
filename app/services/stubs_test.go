package services

import (
	"errors"
	"sync"
	"time"

	"github.com/dnguyen-dev/bistro/app/models"
)

// ─── Store stubs ─────────────────────────────────────────────────────────────

type stubBookings struct {
	mu        sync.Mutex
	records   []models.BookingRecord
	failFirst int // fail this many Create calls with a unique violation
	creates   int
}

func (s *stubBookings) Create(r *models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.creates <= s.failFirst {
		return errors.New("UNIQUE constraint failed: booking_records.code")
	}
	r.ID = uint(len(s.records) + 1)
	s.records = append(s.records, *r)
	return nil
}

func (s *stubBookings) ForUser(userID uint) ([]models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BookingRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (s *stubBookings) FindByCode(code string) (models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Code == code {
			return r, nil
		}
	}
	return models.BookingRecord{}, errors.New("record not found")
}

func (s *stubBookings) all() []models.BookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BookingRecord, len(s.records))
	copy(out, s.records)
	return out
}

type reservedTable struct {
	number int
	code   string
	date   time.Time
}

type stubTables struct {
	mu       sync.Mutex
	tables   []models.Table
	reserved []reservedTable
	released int64
}

func (s *stubTables) All() ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, len(s.tables))
	copy(out, s.tables)
	return out, nil
}

func (s *stubTables) Reserve(number int, date time.Time, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved = append(s.reserved, reservedTable{number: number, code: code, date: date})
	return nil
}

func (s *stubTables) ReleasePast(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released, nil
}

func (s *stubTables) reservations() []reservedTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reservedTable, len(s.reserved))
	copy(out, s.reserved)
	return out
}

// ─── Fixtures ────────────────────────────────────────────────────────────────

func sampleDraft() models.Reservation {
	return models.Reservation{
		TableNumber:   3,
		Date:          "2026-09-15",
		Time:          "19:00",
		Guests:        4,
		CustomerName:  "Nguyen Van A",
		CustomerPhone: "0901234567",
	}
}

func sampleCart() []models.CartItem {
	return []models.CartItem{
		{ID: "4", Name: "Bò Bít Tết Wagyu", Price: 45.00, Quantity: 1},
	}
}
