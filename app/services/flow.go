package services

import (
	"errors"
	"sync"
	"time"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/event"
	"github.com/dnguyen-dev/bistro/pkg/kv"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
)

// Pages of the booking flow.
const (
	PageHome         = "home"
	PageMenu         = "menu"
	PageFoodDetail   = "food-detail"
	PageCart         = "cart"
	PageReservation  = "reservation"
	PageConfirmation = "confirmation"
	PagePayment      = "payment"
	PageSuccess      = "success"
	PageHistory      = "history"
)

// ErrLoginRequired is returned when a guest tries to advance past the cart.
var ErrLoginRequired = errors.New("login required")

const (
	flowKeyPrefix = "bistro:flow:"
	flowTTL       = 24 * time.Hour
)

// Flow is the per-session booking state. All mutation goes through
// FlowService; API consumers read it, nothing else writes it.
type Flow struct {
	Page   string              `json:"page"`
	Cart   []models.CartItem   `json:"cart"`
	Draft  *models.Reservation `json:"draft,omitempty"`
	UserID uint                `json:"userId,omitempty"`
	Email  string              `json:"email,omitempty"`
	Name   string              `json:"name,omitempty"`
}

// LoggedIn reports whether the flow carries an authenticated identity.
func (f *Flow) LoggedIn() bool { return f.Email != "" }

// FlowService owns every flow. A per-session mutex makes each flow
// single-writer; the flows themselves live in the KV store so any
// replica can pick up a session.
type FlowService struct {
	locks   sync.Map // session id -> *sync.Mutex
	booking *BookingService
}

func NewFlowService(booking *BookingService) *FlowService {
	return &FlowService{booking: booking}
}

func (s *FlowService) lock(sid string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sid, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *FlowService) load(sid string) Flow {
	var f Flow
	if !kv.Get(flowKeyPrefix+sid, &f) {
		f = Flow{Page: PageHome}
	}
	return f
}

func (s *FlowService) save(sid string, f Flow) {
	if err := kv.Set(flowKeyPrefix+sid, f, flowTTL); err != nil {
		logger.Error("flow: save failed", "session", sid, "error", err)
	}
}

// Get returns the current flow for a session without mutating it.
func (s *FlowService) Get(sid string) Flow {
	mu := s.lock(sid)
	mu.Lock()
	defer mu.Unlock()
	return s.load(sid)
}

// mutate runs fn under the session lock and persists the result.
func (s *FlowService) mutate(sid string, fn func(*Flow) error) (Flow, error) {
	mu := s.lock(sid)
	mu.Lock()
	defer mu.Unlock()

	f := s.load(sid)
	if err := fn(&f); err != nil {
		return f, err
	}
	s.save(sid, f)
	return f, nil
}

// Visit navigates to one of the freely reachable pages (home, menu,
// food-detail, cart, history).
func (s *FlowService) Visit(sid, page string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		switch page {
		case PageHome, PageMenu, PageFoodDetail, PageCart, PageHistory:
			f.Page = page
			return nil
		default:
			return errors.New("page not directly reachable")
		}
	})
}

// AddToCart inserts the item with quantity 1, or increments the
// existing line when the id is already present.
func (s *FlowService) AddToCart(sid string, item models.CartItem) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		for i := range f.Cart {
			if f.Cart[i].ID == item.ID {
				f.Cart[i].Quantity++
				metrics.CartMutations.WithLabelValues("add").Inc()
				event.Fire(event.CartChanged, f.Cart)
				return nil
			}
		}
		item.Quantity = 1
		f.Cart = append(f.Cart, item)
		metrics.CartMutations.WithLabelValues("add").Inc()
		event.Fire(event.CartChanged, f.Cart)
		return nil
	})
}

// UpdateQuantity sets a line's quantity; zero or below removes the
// line. Unknown ids are a no-op.
func (s *FlowService) UpdateQuantity(sid, id string, quantity int) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		for i := range f.Cart {
			if f.Cart[i].ID != id {
				continue
			}
			if quantity <= 0 {
				f.Cart = append(f.Cart[:i], f.Cart[i+1:]...)
				metrics.CartMutations.WithLabelValues("remove").Inc()
			} else {
				f.Cart[i].Quantity = quantity
				metrics.CartMutations.WithLabelValues("update").Inc()
			}
			event.Fire(event.CartChanged, f.Cart)
			return nil
		}
		return nil
	})
}

// ProceedToReservation advances cart -> reservation. A guest is
// rejected with ErrLoginRequired and the page does not move; an empty
// cart routes back to the menu instead.
func (s *FlowService) ProceedToReservation(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		if !f.LoggedIn() {
			return ErrLoginRequired
		}
		if len(f.Cart) == 0 {
			f.Page = PageMenu
			return nil
		}
		f.Page = PageReservation
		return nil
	})
}

// SubmitReservation stores the draft (replacing any previous one) and
// advances to confirmation. Field validation happens in the controller
// before this is called.
func (s *FlowService) SubmitReservation(sid string, res models.Reservation) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.Draft = &res
		f.Page = PageConfirmation
		return nil
	})
}

// ConfirmBooking advances confirmation -> payment. No data moves.
func (s *FlowService) ConfirmBooking(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.Page = PagePayment
		return nil
	})
}

// CompletePayment appends the immutable booking record and advances to
// success. Without a draft it is a silent no-op: no record, no
// transition. Cart and draft are left untouched; CompleteBooking
// clears them later.
func (s *FlowService) CompletePayment(sid string) (Flow, *models.BookingRecord, error) {
	var record *models.BookingRecord
	f, err := s.mutate(sid, func(f *Flow) error {
		if f.Draft == nil {
			logger.Warn("flow: complete payment without draft", "session", sid)
			return nil
		}
		rec, err := s.booking.Complete(f.UserID, *f.Draft, f.Cart)
		if err != nil {
			return err
		}
		record = rec
		f.Page = PageSuccess
		return nil
	})
	return f, record, err
}

// CancelBooking drops the draft and steps back to the reservation form.
func (s *FlowService) CancelBooking(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.Draft = nil
		f.Page = PageReservation
		return nil
	})
}

// CancelPayment steps back to confirmation. Nothing is discarded.
func (s *FlowService) CancelPayment(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.Page = PageConfirmation
		return nil
	})
}

// CompleteBooking is the terminal cleanup after a successful cycle:
// cart and draft are cleared and the flow returns home.
func (s *FlowService) CompleteBooking(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.Cart = nil
		f.Draft = nil
		f.Page = PageHome
		return nil
	})
}

// Login attaches an authenticated identity to the flow.
func (s *FlowService) Login(sid string, userID uint, email, name string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.UserID = userID
		f.Email = email
		f.Name = name
		return nil
	})
}

// Logout clears identity, cart and draft, and forces the flow home.
func (s *FlowService) Logout(sid string) (Flow, error) {
	return s.mutate(sid, func(f *Flow) error {
		f.UserID = 0
		f.Email = ""
		f.Name = ""
		f.Cart = nil
		f.Draft = nil
		f.Page = PageHome
		return nil
	})
}
