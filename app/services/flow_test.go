package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/kv"
)

func newTestFlow(t *testing.T) (*FlowService, *stubBookings, *stubTables) {
	t.Helper()
	kv.Use(kv.NewMemoryStore())
	bookings := &stubBookings{}
	tables := &stubTables{}
	return NewFlowService(NewBookingService(bookings, tables)), bookings, tables
}

func TestFlowStartsAtHome(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	f := svc.Get("sid-fresh")
	assert.Equal(t, PageHome, f.Page)
	assert.Empty(t, f.Cart)
}

func TestVisitReachablePages(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	for _, page := range []string{PageMenu, PageFoodDetail, PageCart, PageHistory, PageHome} {
		f, err := svc.Visit("sid-visit", page)
		require.NoError(t, err)
		assert.Equal(t, page, f.Page)
	}
}

func TestVisitRejectsGuardedPages(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	for _, page := range []string{PageReservation, PageConfirmation, PagePayment, PageSuccess, "nonsense"} {
		_, err := svc.Visit("sid-guard", page)
		assert.Error(t, err, "page %q should not be directly reachable", page)
	}
	assert.Equal(t, PageHome, svc.Get("sid-guard").Page)
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	item := models.CartItem{ID: "4", Name: "Bò Bít Tết Wagyu", Price: 45.00}

	f, err := svc.AddToCart("sid-cart", item)
	require.NoError(t, err)
	require.Len(t, f.Cart, 1)
	assert.Equal(t, 1, f.Cart[0].Quantity)

	f, err = svc.AddToCart("sid-cart", item)
	require.NoError(t, err)
	require.Len(t, f.Cart, 1)
	assert.Equal(t, 2, f.Cart[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	_, err := svc.AddToCart("sid-qty", models.CartItem{ID: "1", Price: 24.00})
	require.NoError(t, err)

	f, err := svc.UpdateQuantity("sid-qty", "1", 5)
	require.NoError(t, err)
	require.Len(t, f.Cart, 1)
	assert.Equal(t, 5, f.Cart[0].Quantity)

	// Zero removes the line.
	f, err = svc.UpdateQuantity("sid-qty", "1", 0)
	require.NoError(t, err)
	assert.Empty(t, f.Cart)

	// Unknown id is a no-op.
	f, err = svc.UpdateQuantity("sid-qty", "999", 3)
	require.NoError(t, err)
	assert.Empty(t, f.Cart)
}

func TestProceedRequiresLogin(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	_, err := svc.AddToCart("sid-guest", models.CartItem{ID: "1", Price: 24.00})
	require.NoError(t, err)
	_, err = svc.Visit("sid-guest", PageCart)
	require.NoError(t, err)

	_, err = svc.ProceedToReservation("sid-guest")
	assert.ErrorIs(t, err, ErrLoginRequired)
	// The page does not move; the client shows the login prompt and
	// retries after authenticating.
	assert.Equal(t, PageCart, svc.Get("sid-guest").Page)
}

func TestProceedWithEmptyCartRoutesToMenu(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	_, err := svc.Login("sid-empty", 1, "a@example.com", "A")
	require.NoError(t, err)

	f, err := svc.ProceedToReservation("sid-empty")
	require.NoError(t, err)
	assert.Equal(t, PageMenu, f.Page)
}

func TestFullBookingCycle(t *testing.T) {
	svc, bookings, tables := newTestFlow(t)
	sid := "sid-cycle"

	_, err := svc.Login(sid, 7, "a@example.com", "Nguyen Van A")
	require.NoError(t, err)
	_, err = svc.AddToCart(sid, sampleCart()[0])
	require.NoError(t, err)

	f, err := svc.ProceedToReservation(sid)
	require.NoError(t, err)
	assert.Equal(t, PageReservation, f.Page)

	f, err = svc.SubmitReservation(sid, sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, PageConfirmation, f.Page)
	require.NotNil(t, f.Draft)

	f, err = svc.ConfirmBooking(sid)
	require.NoError(t, err)
	assert.Equal(t, PagePayment, f.Page)

	f, record, err := svc.CompletePayment(sid)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, PageSuccess, f.Page)
	assert.Equal(t, uint(7), record.UserID)
	assert.InDelta(t, 49.50, record.Total, 1e-9)
	// Cart and draft survive until the success page is dismissed.
	assert.NotEmpty(t, f.Cart)
	assert.NotNil(t, f.Draft)

	// The chosen table was put on hold under the booking code.
	if reservations := tables.reservations(); assert.Len(t, reservations, 1) {
		assert.Equal(t, 3, reservations[0].number)
		assert.Equal(t, record.Code, reservations[0].code)
	}

	f, err = svc.CompleteBooking(sid)
	require.NoError(t, err)
	assert.Equal(t, PageHome, f.Page)
	assert.Empty(t, f.Cart)
	assert.Nil(t, f.Draft)

	assert.Len(t, bookings.all(), 1)
}

func TestCompletePaymentWithoutDraftIsNoOp(t *testing.T) {
	svc, bookings, _ := newTestFlow(t)
	f, record, err := svc.CompletePayment("sid-nodraft")
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Equal(t, PageHome, f.Page)
	assert.Empty(t, bookings.all())
}

func TestCancelBookingDropsDraft(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	sid := "sid-cancel"
	_, err := svc.SubmitReservation(sid, sampleDraft())
	require.NoError(t, err)

	f, err := svc.CancelBooking(sid)
	require.NoError(t, err)
	assert.Equal(t, PageReservation, f.Page)
	assert.Nil(t, f.Draft)
}

func TestCancelPaymentKeepsDraft(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	sid := "sid-cancel-pay"
	_, err := svc.SubmitReservation(sid, sampleDraft())
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(sid)
	require.NoError(t, err)

	f, err := svc.CancelPayment(sid)
	require.NoError(t, err)
	assert.Equal(t, PageConfirmation, f.Page)
	assert.NotNil(t, f.Draft)
}

func TestLogoutClearsEverything(t *testing.T) {
	svc, _, _ := newTestFlow(t)
	sid := "sid-logout"
	_, err := svc.Login(sid, 2, "b@example.com", "B")
	require.NoError(t, err)
	_, err = svc.AddToCart(sid, models.CartItem{ID: "2", Price: 16.00})
	require.NoError(t, err)
	_, err = svc.SubmitReservation(sid, sampleDraft())
	require.NoError(t, err)

	f, err := svc.Logout(sid)
	require.NoError(t, err)
	assert.Equal(t, PageHome, f.Page)
	assert.Empty(t, f.Cart)
	assert.Nil(t, f.Draft)
	assert.False(t, f.LoggedIn())
	assert.Zero(t, f.UserID)
}
