// Package http provides the HTTP handlers and router of the HumiTrack remote store.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/middleware"
	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	SignUp(ctx context.Context, creds service.Credentials) (*service.AuthResult, error)
	SignIn(ctx context.Context, creds service.Credentials) (*service.AuthResult, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler handles HTTP requests for sign-up, sign-in, sign-out and the current user.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

// SignUp handles POST /api/auth/signup.
// It expects a JSON body with "email" and "password" and answers 201 with the user and an access token.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decode(r, &creds); err != nil {
		writeError(w, h.Log, err)
		return
	}

	res, err := h.AuthService.SignUp(r.Context(), creds)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// SignIn handles POST /api/auth/signin.
// Wrong passwords and unknown emails both answer 401 "invalid login credentials".
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decode(r, &creds); err != nil {
		writeError(w, h.Log, err)
		return
	}

	res, err := h.AuthService.SignIn(r.Context(), creds)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SignOut handles POST /api/auth/signout by closing the session of the presented token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.SignOut(r.Context(), middleware.GetSessionIDFromContext(r.Context())); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// User handles GET /api/auth/user.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.CurrentUser(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
