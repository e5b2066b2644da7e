// Package session provides cookie-based HTTP sessions persisted through the
// key-value store (pkg/kv), so any KV backend works unchanged.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("currentUser", record)
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dnguyen-dev/bistro/pkg/kv"
)

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "bistro_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     false, // set true behind TLS
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]json.RawMessage
	opts    Options
	changed bool
}

func storeKey(id string) string { return "bistro:session:" + id }

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Set stores a JSON-serialisable value under key.
func (s *Session) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: marshal %q: %w", key, err)
	}
	s.data[key] = raw
	s.changed = true
	return nil
}

// Get reads the value under key into dest. Returns false when absent.
func (s *Session) Get(key string, dest interface{}) bool {
	raw, ok := s.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Has reports whether key is present.
func (s *Session) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Invalidate destroys all session data (logout).
func (s *Session) Invalidate() {
	s.data = map[string]json.RawMessage{}
	s.changed = true
}

// Save persists the session through the KV store and writes the cookie.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if err := kv.Set(storeKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts, data: map[string]json.RawMessage{}}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				kv.Get(storeKey(sess.id), &sess.data)
			} else {
				id, err := newID()
				if err != nil {
					http.Error(w, "session unavailable", http.StatusInternalServerError)
					return
				}
				sess.id = id
				// First visit: hand the cookie out immediately so the
				// booking flow has a stable session id.
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieName,
					Value:    sess.id,
					Path:     opts.Path,
					MaxAge:   int(opts.TTL.Seconds()),
					HttpOnly: opts.HTTPOnly,
					Secure:   opts.Secure,
					SameSite: opts.SameSite,
				})
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns a fresh unsaved session if none is present (tests, mostly).
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, data: map[string]json.RawMessage{}, opts: DefaultOptions()}
}
