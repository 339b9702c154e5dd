package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
	"github.com/atinyakov/HumiTrack/internal/middleware"
	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	result      *service.AuthResult
	err         error
	signedOut   string
	currentUser *models.User
}

func (f *fakeAuthService) SignUp(ctx context.Context, creds service.Credentials) (*service.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuthService) SignIn(ctx context.Context, creds service.Credentials) (*service.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuthService) SignOut(ctx context.Context, sessionID string) error {
	f.signedOut = sessionID
	return f.err
}

func (f *fakeAuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return f.currentUser, f.err
}

func TestAuthHandler_SignIn(t *testing.T) {
	ok := &service.AuthResult{
		User:      models.User{ID: "u1", Email: "a@b.co"},
		Token:     "v4.local.abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request body",
		},
		{
			name:           "wrong password",
			body:           `{"email":"a@b.co","password":"nope"}`,
			service:        &fakeAuthService{err: domainerrors.ErrInvalidCredentials},
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "invalid login credentials",
		},
		{
			name:           "storage failure hides details",
			body:           `{"email":"a@b.co","password":"secret1"}`,
			service:        &fakeAuthService{err: errors.New("pq: connection refused")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "success",
			body:           `{"email":"a@b.co","password":"secret1"}`,
			service:        &fakeAuthService{result: ok},
			expectedCode:   http.StatusOK,
			expectedSubstr: `"token":"v4.local.abc"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/signin", bytes.NewBufferString(tt.body))

			h.SignIn(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeAuthService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "created",
			service:      &fakeAuthService{result: &service.AuthResult{User: models.User{ID: "u1", Email: "a@b.co", PasswordHash: "secret-hash"}, Token: "tok"}},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "email taken",
			service:      &fakeAuthService{err: domainerrors.AlreadyExists("email already registered")},
			expectedCode: http.StatusConflict,
			expectedBody: "email already registered\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandler{AuthService: tt.service}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBufferString(`{"email":"a@b.co","password":"secret1"}`))

			h.SignUp(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedBody != "" && rec.Body.String() != tt.expectedBody {
				t.Errorf("body = %q; want %q", rec.Body.String(), tt.expectedBody)
			}
			if strings.Contains(rec.Body.String(), "secret-hash") {
				t.Error("password hash must never be serialized")
			}
		})
	}
}

func TestAuthHandler_SignOutAndUser(t *testing.T) {
	svc := &fakeAuthService{currentUser: &models.User{ID: "u1", Email: "a@b.co"}}
	h := &AuthHandler{AuthService: svc}

	ctx := middleware.WithUserID(context.Background(), "u1")

	rec := httptest.NewRecorder()
	h.User(rec, httptest.NewRequest("GET", "/api/auth/user", nil).WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Fatalf("User status = %d", rec.Code)
	}
	var got models.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if got.Email != "a@b.co" {
		t.Errorf("user = %+v", got)
	}

	rec = httptest.NewRecorder()
	h.SignOut(rec, httptest.NewRequest("POST", "/api/auth/signout", nil).WithContext(ctx))
	if rec.Code != http.StatusNoContent {
		t.Errorf("SignOut status = %d; want 204", rec.Code)
	}
}
