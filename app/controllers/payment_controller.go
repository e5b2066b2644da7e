package controllers

import (
	"errors"
	"net/http"

	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/config"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/response"
	"github.com/dnguyen-dev/bistro/pkg/session"
	"github.com/dnguyen-dev/bistro/pkg/ws"
)

// PaymentController drives the simulated QR payment.
type PaymentController struct {
	payments *services.PaymentEngine
	qr       *services.QRService
}

func NewPaymentController(payments *services.PaymentEngine) *PaymentController {
	return &PaymentController{payments: payments, qr: services.NewQRService()}
}

type paymentView struct {
	services.PaymentState
	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	BankHolder  string `json:"bankHolder"`
}

func (c *PaymentController) view(state services.PaymentState) paymentView {
	return paymentView{
		PaymentState: state,
		BankName:     config.BankName(),
		BankAccount:  config.BankAccount(),
		BankHolder:   config.BankHolder(),
	}
}

// Start opens the pending payment session and its countdown.
// POST /api/payment/start
func (c *PaymentController) Start(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	state, err := c.payments.Start(sid)
	if err != nil {
		if errors.Is(err, services.ErrNoPayment) {
			response.Error(w, http.StatusConflict, "no reservation to pay for")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not start payment")
		return
	}
	response.Success(w, c.view(state))
}

// Confirm moves pending -> processing; verification and completion
// follow on their fixed delays, pushed over the WebSocket.
// POST /api/payment/confirm
func (c *PaymentController) Confirm(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	state, err := c.payments.Confirm(sid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPayment):
			response.Error(w, http.StatusConflict, "no active payment")
		case errors.Is(err, services.ErrNotPending):
			response.Error(w, http.StatusConflict, "payment already confirmed")
		default:
			response.Error(w, http.StatusInternalServerError, "could not confirm payment")
		}
		return
	}
	response.Success(w, c.view(state))
}

// Cancel abandons the pending payment and steps the flow back to
// confirmation. POST /api/payment/cancel
func (c *PaymentController) Cancel(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	flow, err := c.payments.Cancel(sid)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not cancel payment")
		return
	}
	response.Success(w, flow)
}

// Show returns the current payment snapshot. GET /api/payment
func (c *PaymentController) Show(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	state, err := c.payments.State(sid)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, c.view(state))
}

// QRImage streams the rendered QR PNG for the active payment.
// GET /api/payment/qr
func (c *PaymentController) QRImage(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	state, err := c.payments.State(sid)
	if err != nil {
		response.NotFound(w)
		return
	}

	png, err := c.qr.Image(r.Context(), state.QRPayload)
	if err != nil {
		logger.WithCtx(r.Context()).Error("qr image failed", "error", err)
		response.Error(w, http.StatusBadGateway, "qr renderer unavailable")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=600")
	w.Write(png) //nolint:errcheck
}

// Stream subscribes the client to countdown ticks and status changes
// for its own payment session. GET /ws/payment
func (c *PaymentController) Stream(w http.ResponseWriter, r *http.Request) {
	sid := session.FromCtx(r).ID()
	ws.Subscribe(w, r, ws.PaymentHub, "payment:"+sid)
}
