package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFormat(t *testing.T) {
	at := time.UnixMilli(1767182400123) // 2025-12-31 12:00:00.123 UTC
	code := GenerateCode(at)

	assert.Len(t, code, 11)
	assert.Equal(t, "RES", code[:3])
	assert.Equal(t, "82400123", code[3:])
}

func TestGenerateCodeAdvancesWithClock(t *testing.T) {
	at := time.UnixMilli(1767182400123)
	assert.NotEqual(t, GenerateCode(at), GenerateCode(at.Add(time.Millisecond)))
}

func TestCompleteWritesRecord(t *testing.T) {
	bookings := &stubBookings{}
	tables := &stubTables{}
	svc := NewBookingService(bookings, tables)
	svc.now = func() time.Time { return time.UnixMilli(1767182400123) }

	record, err := svc.Complete(9, sampleDraft(), sampleCart())
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "RES82400123", record.Code)
	assert.Equal(t, uint(9), record.UserID)
	assert.InDelta(t, 45.00, record.Subtotal, 1e-9)
	assert.InDelta(t, 4.50, record.Tax, 1e-9)
	assert.InDelta(t, 49.50, record.Total, 1e-9)

	// Snapshots survive round-tripping.
	res, err := record.Reservation()
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", res.CustomerName)
	cart, err := record.Cart()
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "4", cart[0].ID)
}

func TestCompleteRetriesCodeCollision(t *testing.T) {
	bookings := &stubBookings{failFirst: 2}
	tables := &stubTables{}
	svc := NewBookingService(bookings, tables)
	svc.now = func() time.Time { return time.UnixMilli(1767182400123) }

	record, err := svc.Complete(1, sampleDraft(), sampleCart())
	require.NoError(t, err)

	// Two collisions, so the stored code is two milliseconds later.
	assert.Equal(t, "RES82400125", record.Code)
	assert.Equal(t, 3, bookings.creates)
}

func TestCompleteGivesUpAfterRepeatedCollisions(t *testing.T) {
	bookings := &stubBookings{failFirst: 100}
	svc := NewBookingService(bookings, &stubTables{})

	_, err := svc.Complete(1, sampleDraft(), sampleCart())
	assert.Error(t, err)
	assert.Equal(t, 5, bookings.creates)
}

func TestCompleteReservesTable(t *testing.T) {
	bookings := &stubBookings{}
	tables := &stubTables{}
	svc := NewBookingService(bookings, tables)

	record, err := svc.Complete(1, sampleDraft(), sampleCart())
	require.NoError(t, err)

	reservations := tables.reservations()
	require.Len(t, reservations, 1)
	assert.Equal(t, 3, reservations[0].number)
	assert.Equal(t, record.Code, reservations[0].code)
	assert.Equal(t, "2026-09-15", reservations[0].date.Format("2006-01-02"))
}

func TestHistoryNewestFirst(t *testing.T) {
	bookings := &stubBookings{}
	svc := NewBookingService(bookings, &stubTables{})
	base := time.UnixMilli(1767182400000)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	first, err := svc.Complete(5, sampleDraft(), sampleCart())
	require.NoError(t, err)
	second, err := svc.Complete(5, sampleDraft(), sampleCart())
	require.NoError(t, err)

	history, err := svc.History(5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.Code, history[0].Code)
	assert.Equal(t, first.Code, history[1].Code)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(assertErr("UNIQUE constraint failed: booking_records.code")))
	assert.True(t, isDuplicate(assertErr("duplicate key value violates unique constraint")))
	assert.False(t, isDuplicate(assertErr("connection refused")))
	assert.False(t, isDuplicate(nil))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
	assert.Equal(t, "-45,000", groupThousands(-45000))
}
