package controllers

import (
	"errors"
	"net/http"

	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/bind"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/middleware"
	"github.com/dnguyen-dev/bistro/pkg/response"
	"github.com/dnguyen-dev/bistro/pkg/session"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	auth *services.AuthService
	flow *services.FlowService
}

func NewAuthController(auth *services.AuthService, flow *services.FlowService) *AuthController {
	return &AuthController{auth: auth, flow: flow}
}

// Register creates an account. POST /api/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(in)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Conflict(w, "email already registered")
			return
		}
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	response.Created(w, user)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials, binds the identity to the session's flow
// and returns a JWT. POST /api/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Uniform message: never reveal which part failed.
			response.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	sess := session.FromCtx(r)
	sess.Set("user", map[string]string{"email": user.Email, "name": user.Name}) //nolint:errcheck
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save failed", "error", err)
	}

	flow, err := c.flow.Login(sess.ID(), user.ID, user.Email, user.Name)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	response.Success(w, map[string]any{
		"token": token,
		"user":  user,
		"flow":  flow,
	})
}

// Logout clears the identity, cart and draft, and routes the flow home.
// POST /api/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)

	flow, err := c.flow.Logout(sess.ID())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "logout failed")
		return
	}

	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save failed", "error", err)
	}

	response.Success(w, flow)
}

// Profile returns the registered user for reservation auto-fill.
// GET /api/profile (JWT protected)
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.Profile(userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, user)
}
