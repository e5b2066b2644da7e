package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/event"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
)

// BookingCompletedPayload travels with the event.BookingCompleted event.
type BookingCompletedPayload struct {
	Record      *models.BookingRecord
	Reservation models.Reservation
}

// BookingService creates booking history records and keeps the table
// inventory in step with them.
type BookingService struct {
	bookings bookingStore
	tables   tableStore
	now      func() time.Time
}

// bookingStore and tableStore are what the service needs from the
// repositories; tests stub them.
type bookingStore interface {
	Create(record *models.BookingRecord) error
	ForUser(userID uint) ([]models.BookingRecord, error)
	FindByCode(code string) (models.BookingRecord, error)
}

type tableStore interface {
	All() ([]models.Table, error)
	Reserve(number int, date time.Time, code string) error
	ReleasePast(cutoff time.Time) (int64, error)
}

func NewBookingService(bookings bookingStore, tables tableStore) *BookingService {
	return &BookingService{
		bookings: bookings,
		tables:   tables,
		now:      time.Now,
	}
}

// GenerateCode builds a booking code from a timestamp: "RES" plus the
// last eight digits of the Unix-millisecond value.
func GenerateCode(at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	return "RES" + ms[len(ms)-8:]
}

// Complete appends the immutable record for a finished payment,
// reserves the chosen table, and fires the completion event that
// queues the confirmation email.
//
// The code keeps the historical timestamp format; the unique index on
// code is the collision guard, and a duplicate retries with the next
// millisecond.
func (s *BookingService) Complete(userID uint, draft models.Reservation, cart []models.CartItem) (*models.BookingRecord, error) {
	totals := ComputeTotals(cart)

	resJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("booking: snapshot reservation: %w", err)
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("booking: snapshot cart: %w", err)
	}

	at := s.now()
	var record *models.BookingRecord
	for attempt := 0; attempt < 5; attempt++ {
		candidate := &models.BookingRecord{
			Code:            GenerateCode(at),
			UserID:          userID,
			ReservationJSON: resJSON,
			CartJSON:        cartJSON,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Total:           totals.Total,
			BookedAt:        at,
		}
		err = s.bookings.Create(candidate)
		if err == nil {
			record = candidate
			break
		}
		if !isDuplicate(err) {
			return nil, fmt.Errorf("booking: persist record: %w", err)
		}
		at = at.Add(time.Millisecond)
	}
	if record == nil {
		return nil, fmt.Errorf("booking: code collision persisted after retries: %w", err)
	}

	s.reserveTable(draft, record.Code)

	metrics.BookingsCompleted.Inc()
	event.FireAsync(event.BookingCompleted, BookingCompletedPayload{
		Record:      record,
		Reservation: draft,
	})
	return record, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite reports unique violations as plain errors.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// reserveTable flips the booked table to reserved. A failure here does
// not undo the booking; the sweep reconciles eventually.
func (s *BookingService) reserveTable(draft models.Reservation, code string) {
	date, err := time.Parse("2006-01-02", draft.Date)
	if err != nil {
		logger.Warn("booking: unparseable reservation date", "date", draft.Date, "error", err)
		date = s.now()
	}
	if err := s.tables.Reserve(draft.TableNumber, date, code); err != nil {
		logger.Error("booking: reserve table failed",
			"table", draft.TableNumber, "code", code, "error", err)
	}
}

// History returns a user's booking records, newest first.
func (s *BookingService) History(userID uint) ([]models.BookingRecord, error) {
	return s.bookings.ForUser(userID)
}

// Find returns one record by code.
func (s *BookingService) Find(code string) (models.BookingRecord, error) {
	return s.bookings.FindByCode(code)
}

// ReleasePastTables frees tables whose reserved date has passed.
// Wired to the daily schedule sweep.
func (s *BookingService) ReleasePastTables() {
	cutoff := s.now().Truncate(24 * time.Hour)
	n, err := s.tables.ReleasePast(cutoff)
	if err != nil {
		logger.Error("booking: release past tables", "error", err)
		return
	}
	if n > 0 {
		logger.Info("booking: released tables", "count", n)
	}
}
