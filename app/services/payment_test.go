package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/pkg/kv"
	"github.com/dnguyen-dev/bistro/pkg/workerpool"
	"github.com/dnguyen-dev/bistro/pkg/ws"
)

var hubOnce sync.Once

// newTestPayment compresses the simulated delays so a full payment
// lifecycle fits in a test run.
func newTestPayment(t *testing.T) (*PaymentEngine, *FlowService, *stubBookings) {
	t.Helper()
	hubOnce.Do(func() { go ws.PaymentHub.Run() })

	kv.Use(kv.NewMemoryStore())
	bookings := &stubBookings{}
	flow := NewFlowService(NewBookingService(bookings, &stubTables{}))
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	engine := NewPaymentEngine(flow, pool)
	engine.tick = time.Millisecond
	engine.verifyDelay = 5 * time.Millisecond
	engine.completeDelay = 5 * time.Millisecond
	return engine, flow, bookings
}

// driveToPayment walks a session through cart, reservation and
// confirmation so a payment can start.
func driveToPayment(t *testing.T, flow *FlowService, sid string) {
	t.Helper()
	_, err := flow.Login(sid, 1, "a@example.com", "Nguyen Van A")
	require.NoError(t, err)
	_, err = flow.AddToCart(sid, sampleCart()[0])
	require.NoError(t, err)
	_, err = flow.ProceedToReservation(sid)
	require.NoError(t, err)
	_, err = flow.SubmitReservation(sid, sampleDraft())
	require.NoError(t, err)
	_, err = flow.ConfirmBooking(sid)
	require.NoError(t, err)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartRequiresDraft(t *testing.T) {
	engine, _, _ := newTestPayment(t)
	_, err := engine.Start("sid-pay-nodraft")
	assert.ErrorIs(t, err, ErrNoPayment)
}

func TestStartOpensPendingSession(t *testing.T) {
	engine, flow, _ := newTestPayment(t)
	sid := "sid-pay-start"
	driveToPayment(t, flow, sid)

	state, err := engine.Start(sid)
	require.NoError(t, err)

	assert.Equal(t, PaymentPending, state.Status)
	assert.Equal(t, 600, state.Remaining)
	assert.InDelta(t, 49.50, state.Amount, 1e-9)
	assert.True(t, strings.HasPrefix(state.Memo, "RES"))
	assert.True(t, strings.HasSuffix(state.Memo, " Nguyen Van A"))
	assert.Contains(t, state.QRPayload, state.Memo)
}

func TestCountdownExpiry(t *testing.T) {
	engine, flow, bookings := newTestPayment(t)
	sid := "sid-pay-expire"
	driveToPayment(t, flow, sid)

	_, err := engine.Start(sid)
	require.NoError(t, err)

	// 600 one-millisecond ticks, then expiry.
	waitFor(t, 5*time.Second, func() bool {
		_, err := engine.State(sid)
		return err == ErrNoPayment
	})

	// Expiry routes back to confirmation; nothing was booked.
	assert.Equal(t, PageConfirmation, flow.Get(sid).Page)
	assert.NotNil(t, flow.Get(sid).Draft)
	assert.Empty(t, bookings.all())
}

func TestConfirmCompletesBooking(t *testing.T) {
	engine, flow, bookings := newTestPayment(t)
	sid := "sid-pay-confirm"
	driveToPayment(t, flow, sid)

	_, err := engine.Start(sid)
	require.NoError(t, err)

	state, err := engine.Confirm(sid)
	require.NoError(t, err)
	assert.Equal(t, PaymentProcessing, state.Status)

	waitFor(t, 2*time.Second, func() bool {
		return flow.Get(sid).Page == PageSuccess
	})

	records := bookings.all()
	require.Len(t, records, 1)
	assert.True(t, strings.HasPrefix(records[0].Code, "RES"))
}

func TestConfirmTwiceRejected(t *testing.T) {
	engine, flow, _ := newTestPayment(t)
	sid := "sid-pay-double"
	driveToPayment(t, flow, sid)

	_, err := engine.Start(sid)
	require.NoError(t, err)
	_, err = engine.Confirm(sid)
	require.NoError(t, err)

	_, err = engine.Confirm(sid)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancelReturnsToConfirmation(t *testing.T) {
	engine, flow, bookings := newTestPayment(t)
	sid := "sid-pay-cancel"
	driveToPayment(t, flow, sid)

	_, err := engine.Start(sid)
	require.NoError(t, err)

	f, err := engine.Cancel(sid)
	require.NoError(t, err)
	assert.Equal(t, PageConfirmation, f.Page)
	assert.NotNil(t, f.Draft)
	assert.Empty(t, bookings.all())

	_, err = engine.State(sid)
	assert.ErrorIs(t, err, ErrNoPayment)
}

func TestSweepOrphansExpiresAbandonedSession(t *testing.T) {
	engine, flow, _ := newTestPayment(t)
	// Slow the countdown right down so only the sweep can expire it.
	engine.tick = time.Hour
	sid := "sid-pay-orphan"
	driveToPayment(t, flow, sid)

	_, err := engine.Start(sid)
	require.NoError(t, err)

	// The client wandered back to the menu mid-payment.
	_, err = flow.Visit(sid, PageMenu)
	require.NoError(t, err)

	engine.SweepOrphans()

	_, err = engine.State(sid)
	assert.ErrorIs(t, err, ErrNoPayment)

	// The sweep must not yank the user back to confirmation.
	f := flow.Get(sid)
	assert.Equal(t, PageMenu, f.Page)
	assert.NotNil(t, f.Draft)
}

func TestQRPayloadShape(t *testing.T) {
	memo := "RES12345678 Nguyen Van A"
	payload := QRPayload(memo)

	assert.True(t, strings.HasPrefix(payload, "000201"))
	assert.True(t, strings.HasSuffix(payload, "6304"))
	assert.Contains(t, payload, "5802VN")
	// The memo is length-prefixed with two digits.
	assert.Contains(t, payload, "6224"+memo)
}
