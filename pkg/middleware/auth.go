// Package middleware provides the HTTP middleware stack for Bistro.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dnguyen-dev/bistro/pkg/auth"
	"github.com/dnguyen-dev/bistro/pkg/response"
)

type userIDKey struct{}
type emailKey struct{}

// Auth validates the Bearer token and stores the caller's identity in the
// request context. Protected routes mount this; everything else stays open so
// anonymous visitors can browse the menu and build a cart.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, emailKey{}, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's ID, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// EmailFromCtx returns the authenticated user's email, if any.
func EmailFromCtx(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(emailKey{}).(string)
	return email, ok
}
