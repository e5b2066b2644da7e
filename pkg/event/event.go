// Package event is a small in-process event dispatcher used to decouple
// the booking flow from its side effects (metrics, table reservation,
// confirmation email).
package event

import (
	"sync"
)

// Booking-flow event names.
const (
	CartChanged      = "cart.changed"
	BookingCompleted = "booking.completed"
	PaymentConfirmed = "payment.confirmed"
	PaymentExpired   = "payment.expired"
)

// Handler receives the payload the emitter fired.
type Handler func(payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(name string, payload any) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and
// returns without waiting for them.
func FireAsync(name string, payload any) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}

// Flush removes all listeners. Tests use this between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
