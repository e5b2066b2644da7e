package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnguyen-dev/bistro/config"
	"github.com/dnguyen-dev/bistro/pkg/event"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
	"github.com/dnguyen-dev/bistro/pkg/workerpool"
	"github.com/dnguyen-dev/bistro/pkg/ws"
)

// Payment statuses.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentExpired    = "expired"
)

// Fixed delays of the simulated verification. There is no real
// processor behind this; the delays are the protocol.
const (
	verifyDelay   = 2 * time.Second
	completeDelay = 1500 * time.Millisecond
)

var (
	// ErrNoPayment is returned when a session has no active payment.
	ErrNoPayment = errors.New("no active payment session")
	// ErrNotPending is returned when confirming a payment that already
	// left the pending state.
	ErrNotPending = errors.New("payment is not pending")
)

// PaymentState is the client-visible snapshot of a payment session.
type PaymentState struct {
	Status    string  `json:"status"`
	Remaining int     `json:"remaining"` // seconds left while pending
	Amount    float64 `json:"amount"`
	QRPayload string  `json:"qrPayload"`
	Memo      string  `json:"memo"`
	Code      string  `json:"code,omitempty"` // set once completed
}

type paymentSession struct {
	mu        sync.Mutex
	sid       string
	status    string
	remaining int
	amount    float64
	memo      string
	qrPayload string
	code      string
	stop      chan struct{}
	stopped   bool
}

// PaymentEngine owns every active payment session: one countdown
// goroutine per session, verification runs bounded by a worker pool,
// ticks and status changes pushed over the payment WebSocket hub.
type PaymentEngine struct {
	mu       sync.Mutex
	sessions map[string]*paymentSession
	flow     *FlowService
	pool     *workerpool.Pool
	hub      *ws.Hub

	// Overridable in tests to compress simulated time.
	tick          time.Duration
	verifyDelay   time.Duration
	completeDelay time.Duration
}

func NewPaymentEngine(flow *FlowService, pool *workerpool.Pool) *PaymentEngine {
	return &PaymentEngine{
		sessions:      make(map[string]*paymentSession),
		flow:          flow,
		pool:          pool,
		hub:           ws.PaymentHub,
		tick:          time.Second,
		verifyDelay:   verifyDelay,
		completeDelay: completeDelay,
	}
}

// Start opens a pending payment session for the flow's draft and
// begins the countdown. An existing session for the same sid is
// replaced.
func (e *PaymentEngine) Start(sid string) (PaymentState, error) {
	f := e.flow.Get(sid)
	if f.Draft == nil {
		return PaymentState{}, ErrNoPayment
	}

	totals := ComputeTotals(f.Cart)
	memo := fmt.Sprintf("%s %s", GenerateCode(time.Now()), f.Draft.CustomerName)

	s := &paymentSession{
		sid:       sid,
		status:    PaymentPending,
		remaining: int(config.PaymentWindow() / time.Second),
		amount:    totals.Total,
		memo:      memo,
		qrPayload: QRPayload(memo),
		stop:      make(chan struct{}),
	}

	e.mu.Lock()
	if old := e.sessions[sid]; old != nil {
		old.halt()
	}
	e.sessions[sid] = s
	e.mu.Unlock()

	go e.countdown(s)

	logger.Info("payment: session started", "session", sid, "amount", s.amount)
	return e.snapshot(s), nil
}

// countdown decrements once per tick while the session stays pending.
// Hitting zero expires the payment exactly once: back to confirmation,
// timeout reported.
func (e *PaymentEngine) countdown(s *paymentSession) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.status != PaymentPending {
				s.mu.Unlock()
				return
			}
			s.remaining--
			remaining := s.remaining
			s.mu.Unlock()

			if remaining <= 0 {
				e.expire(s)
				return
			}
			e.push(s)
		}
	}
}

func (e *PaymentEngine) expire(s *paymentSession) {
	s.mu.Lock()
	if s.status != PaymentPending {
		s.mu.Unlock()
		return
	}
	s.status = PaymentExpired
	s.remaining = 0
	s.mu.Unlock()

	metrics.PaymentsExpired.Inc()
	event.Fire(event.PaymentExpired, s.sid)

	// Only reroute the flow while it still sits on the payment page; a
	// user who wandered off before the sweep keeps their place.
	if e.flow.Get(s.sid).Page == PagePayment {
		if _, err := e.flow.CancelPayment(s.sid); err != nil {
			logger.Error("payment: cancel after expiry", "session", s.sid, "error", err)
		}
	}
	e.push(s)
	e.drop(s.sid)
	logger.Info("payment: session expired", "session", s.sid)
}

// Confirm moves a pending session to processing, stops the countdown,
// and schedules the simulated verification: after a fixed delay the
// session completes, and after a second delay the booking is recorded
// through the flow.
func (e *PaymentEngine) Confirm(sid string) (PaymentState, error) {
	s := e.get(sid)
	if s == nil {
		return PaymentState{}, ErrNoPayment
	}

	s.mu.Lock()
	if s.status != PaymentPending {
		s.mu.Unlock()
		return e.snapshot(s), ErrNotPending
	}
	s.status = PaymentProcessing
	s.halt()
	s.mu.Unlock()

	metrics.PaymentsConfirmed.Inc()
	event.Fire(event.PaymentConfirmed, sid)
	e.push(s)

	if err := e.pool.Submit(func() { e.verify(s) }); err != nil {
		// Pool saturated; run inline rather than dropping the payment.
		logger.Warn("payment: pool full, verifying inline", "session", sid, "error", err)
		go e.verify(s)
	}
	return e.snapshot(s), nil
}

func (e *PaymentEngine) verify(s *paymentSession) {
	time.Sleep(e.verifyDelay)

	s.mu.Lock()
	s.status = PaymentCompleted
	s.mu.Unlock()
	e.push(s)

	time.Sleep(e.completeDelay)

	_, record, err := e.flow.CompletePayment(s.sid)
	if err != nil {
		logger.Error("payment: complete failed", "session", s.sid, "error", err)
		return
	}
	if record != nil {
		s.mu.Lock()
		s.code = record.Code
		s.mu.Unlock()
	}
	e.push(s)
	e.drop(s.sid)
}

// Cancel abandons a pending session and routes the flow back to
// confirmation.
func (e *PaymentEngine) Cancel(sid string) (Flow, error) {
	if s := e.get(sid); s != nil {
		s.mu.Lock()
		pending := s.status == PaymentPending
		if pending {
			s.status = PaymentExpired
			s.halt()
		}
		s.mu.Unlock()
		e.drop(sid)
	}
	return e.flow.CancelPayment(sid)
}

// State returns the snapshot of a session's payment.
func (e *PaymentEngine) State(sid string) (PaymentState, error) {
	s := e.get(sid)
	if s == nil {
		return PaymentState{}, ErrNoPayment
	}
	return e.snapshot(s), nil
}

// SweepOrphans expires pending sessions whose flow has moved off the
// payment page (client vanished mid-payment). Wired to the scheduler.
func (e *PaymentEngine) SweepOrphans() {
	e.mu.Lock()
	var orphans []*paymentSession
	for sid, s := range e.sessions {
		if e.flow.Get(sid).Page != PagePayment {
			orphans = append(orphans, s)
		}
	}
	e.mu.Unlock()

	for _, s := range orphans {
		s.mu.Lock()
		pending := s.status == PaymentPending
		s.mu.Unlock()
		if pending {
			logger.Info("payment: sweeping orphaned session", "session", s.sid)
			e.expire(s)
		}
	}
}

func (e *PaymentEngine) get(sid string) *paymentSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[sid]
}

func (e *PaymentEngine) drop(sid string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, sid)
}

func (e *PaymentEngine) snapshot(s *paymentSession) PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PaymentState{
		Status:    s.status,
		Remaining: s.remaining,
		Amount:    s.amount,
		QRPayload: s.qrPayload,
		Memo:      s.memo,
		Code:      s.code,
	}
}

// push publishes the current state to the session's WebSocket topic.
func (e *PaymentEngine) push(s *paymentSession) {
	e.hub.PublishJSON("payment:"+s.sid, e.snapshot(s))
}

// halt stops the countdown goroutine once. Callers hold s.mu or own
// the session exclusively.
func (s *paymentSession) halt() {
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
}

// QRPayload builds the VietQR-style string the external renderer turns
// into an image. No cryptographic integrity; it mirrors the bank
// transfer slip.
func QRPayload(memo string) string {
	account := config.BankAccount()
	return fmt.Sprintf("00020101021238570010A00000072701270006970436011%s0208QRIBFTTA53037045802VN62%02d%s6304",
		account, len(memo), memo)
}
