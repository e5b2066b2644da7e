package controllers

import (
	"errors"
	"net/http"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/bind"
	"github.com/dnguyen-dev/bistro/pkg/response"
	"github.com/dnguyen-dev/bistro/pkg/session"
	"github.com/dnguyen-dev/bistro/pkg/validate"
)

// FlowController exposes the booking-flow state machine. Every
// endpoint answers with the resulting flow (and derived totals) so the
// client never has to guess what page it is on.
type FlowController struct {
	flow   *services.FlowService
	menu   *repositories.MenuRepository
	tables *repositories.TableRepository
}

func NewFlowController(flow *services.FlowService) *FlowController {
	return &FlowController{
		flow:   flow,
		menu:   repositories.NewMenuRepository(),
		tables: repositories.NewTableRepository(),
	}
}

type flowView struct {
	Flow   services.Flow   `json:"flow"`
	Totals services.Totals `json:"totals"`
}

func (c *FlowController) view(f services.Flow) flowView {
	return flowView{Flow: f, Totals: services.ComputeTotals(f.Cart)}
}

// Show returns the current flow. GET /api/flow
func (c *FlowController) Show(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	response.Success(w, c.view(c.flow.Get(sid)))
}

type visitInput struct {
	Page string `json:"page" validate:"required"`
}

// Visit navigates to a freely reachable page. POST /api/flow/visit
func (c *FlowController) Visit(w http.ResponseWriter, r *http.Request) {
	var in visitInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sid := session.FromCtx(r).ID()
	f, err := c.flow.Visit(sid, in.Page)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(w, c.view(f))
}

type addToCartInput struct {
	ID string `json:"id" validate:"required"`
}

// AddToCart puts one unit of a dish in the cart. The price always
// comes from the catalogue, never from the client.
// POST /api/cart
func (c *FlowController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var in addToCartInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.menu.FindByCode(in.ID)
	if err != nil {
		response.NotFound(w)
		return
	}

	sid := session.FromCtx(r).ID()
	f, err := c.flow.AddToCart(sid, models.CartItem{
		ID:    item.Code,
		Name:  item.Name,
		Price: item.Price,
		Image: item.Image,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "cart update failed")
		return
	}
	response.Success(w, c.view(f))
}

type updateQuantityInput struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// UpdateQuantity sets a cart line's quantity; zero removes the line.
// PATCH /api/cart
func (c *FlowController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var in updateQuantityInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sid := session.FromCtx(r).ID()
	f, err := c.flow.UpdateQuantity(sid, in.ID, in.Quantity)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "cart update failed")
		return
	}
	response.Success(w, c.view(f))
}

// Proceed advances cart -> reservation, or back to the menu when the
// cart is empty. Guests get 401 with a login prompt and the page does
// not move. POST /api/flow/proceed
func (c *FlowController) Proceed(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	f, err := c.flow.ProceedToReservation(sid)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not proceed")
		return
	}
	response.Success(w, c.view(f))
}

type reservationInput struct {
	TableNumber   int    `json:"tableNumber" validate:"required,gte=1"`
	Date          string `json:"date" validate:"required,date"`
	Time          string `json:"time" validate:"required"`
	Guests        int    `json:"guests" validate:"required,gte=1,lte=10"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required,digits=9..11"`
	CustomerEmail string `json:"customerEmail" validate:"nullable,email"`
	Notes         string `json:"notes" validate:"nullable"`
}

// SubmitReservation validates the form, checks the table can seat the
// party, stores the draft and advances to confirmation.
// POST /api/reservation
func (c *FlowController) SubmitReservation(w http.ResponseWriter, r *http.Request) {
	var in reservationInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !services.ValidSlot(in.Time) {
		response.ValidationError(w, map[string]string{"time": "time must be an available slot"})
		return
	}
	if _, err := validate.ParseDate(in.Date); err != nil {
		response.ValidationError(w, map[string]string{"date": "date must be a valid date"})
		return
	}

	table, err := c.tables.FindByNumber(in.TableNumber)
	if err != nil {
		response.ValidationError(w, map[string]string{"tableNumber": "unknown table"})
		return
	}
	if table.Status != models.TableAvailable || table.Capacity < in.Guests {
		response.ValidationError(w, map[string]string{"tableNumber": "table cannot seat this party"})
		return
	}

	sid := session.FromCtx(r).ID()
	f, err := c.flow.SubmitReservation(sid, models.Reservation{
		TableNumber:   in.TableNumber,
		Date:          in.Date,
		Time:          in.Time,
		Guests:        in.Guests,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not store reservation")
		return
	}
	response.Success(w, c.view(f))
}

// Confirm advances confirmation -> payment. POST /api/flow/confirm
func (c *FlowController) Confirm(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	f, err := c.flow.ConfirmBooking(sid)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not confirm")
		return
	}
	response.Success(w, c.view(f))
}

// CancelBooking drops the draft and steps back to the reservation
// form. POST /api/flow/cancel-booking
func (c *FlowController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	f, err := c.flow.CancelBooking(sid)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not cancel")
		return
	}
	response.Success(w, c.view(f))
}

// Complete is the terminal cleanup after success: clears cart and
// draft and returns home. POST /api/flow/complete
func (c *FlowController) Complete(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	f, err := c.flow.CompleteBooking(sid)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not complete")
		return
	}
	response.Success(w, c.view(f))
}
