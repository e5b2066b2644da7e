package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/middleware"
	"github.com/dnguyen-dev/bistro/pkg/response"
)

// BookingController serves the immutable booking history.
type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// bookingView inflates the stored snapshots for the client.
type bookingView struct {
	Code        string             `json:"code"`
	Reservation models.Reservation `json:"reservation"`
	Cart        []models.CartItem  `json:"cart"`
	Subtotal    float64            `json:"subtotal"`
	Tax         float64            `json:"tax"`
	Total       float64            `json:"total"`
	Timestamp   string             `json:"timestamp"`
}

func toBookingView(rec models.BookingRecord) bookingView {
	res, _ := rec.Reservation()
	cart, _ := rec.Cart()
	return bookingView{
		Code:        rec.Code,
		Reservation: res,
		Cart:        cart,
		Subtotal:    rec.Subtotal,
		Tax:         rec.Tax,
		Total:       rec.Total,
		Timestamp:   rec.BookedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Index lists the authenticated user's bookings, newest first.
// GET /api/bookings (JWT protected)
func (c *BookingController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	records, err := c.bookings.History(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	views := make([]bookingView, len(records))
	for i, rec := range records {
		views[i] = toBookingView(rec)
	}
	response.Success(w, views)
}

// Show returns one booking by code, restricted to its owner.
// GET /api/bookings/{code} (JWT protected)
func (c *BookingController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	rec, err := c.bookings.Find(chi.URLParam(r, "code"))
	if err != nil || rec.UserID != userID {
		response.NotFound(w)
		return
	}
	response.Success(w, toBookingView(rec))
}
