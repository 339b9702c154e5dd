// Package service provides the business logic of the remote store:
// authentication and user-scoped collections, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/HumiTrack/internal/auth"
	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/repository"
	"github.com/atinyakov/HumiTrack/internal/validation"
)

// msgEmailTaken is matched by substring on the client.
const msgEmailTaken = "email already registered"

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CreateUser stores a new user. Returns repository.ErrDuplicate for a taken email.
	CreateUser(ctx context.Context, u models.User) error
	// GetUserByEmail returns repository.ErrNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns repository.ErrNotFound when no user has the id.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateSession(ctx context.Context, id, userID string, expiresAt time.Time) error
	SessionActive(ctx context.Context, id, userID string) (bool, error)
	DeleteSession(ctx context.Context, id string) error
}

// TokenService issues and verifies access tokens.
type TokenService interface {
	Issue(userID, email, sessionID string) (string, time.Time)
	Verify(token string) (*auth.Claims, error)
}

// Credentials is the sign-up and sign-in payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Service implements authentication operations by delegating
// to an AuthRepository.
type Service struct {
	repo      AuthRepository
	tokens    TokenService
	validator *validation.Validator
	now       func() time.Time
}

// NewAuthService constructs a new Service using the provided repository and token service.
func NewAuthService(repo AuthRepository, tokens TokenService, v *validation.Validator) *Service {
	return &Service{repo: repo, tokens: tokens, validator: v, now: time.Now}
}

// SignUp registers a user and opens a session for them.
func (s *Service) SignUp(ctx context.Context, creds Credentials) (*AuthResult, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := s.validator.Validate(creds); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domainerrors.AlreadyExists(msgEmailTaken)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "sign up failed")
	}

	return s.openSession(ctx, user)
}

// SignIn checks the password and opens a session.
// Unknown emails and wrong passwords produce the same error.
func (s *Service) SignIn(ctx context.Context, creds Credentials) (*AuthResult, error) {
	creds.Email = normalizeEmail(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, domainerrors.Validation("email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "sign in failed")
	}
	if !auth.VerifyPassword(user.PasswordHash, creds.Password) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return s.openSession(ctx, *user)
}

func (s *Service) openSession(ctx context.Context, user models.User) (*AuthResult, error) {
	sessionID := uuid.NewString()
	token, expiresAt := s.tokens.Issue(user.ID, user.Email, sessionID)
	if err := s.repo.CreateSession(ctx, sessionID, user.ID, expiresAt); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "open session failed")
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut closes the session.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "sign out failed")
	}
	return nil
}

// Authenticate verifies token and checks that its session is still open.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid token")
	}
	active, err := s.repo.SessionActive(ctx, claims.SessionID, claims.UserID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "session lookup failed")
	}
	if !active {
		return nil, domainerrors.Unauthorized("session expired")
	}
	return claims, nil
}

// CurrentUser returns the user with the given id.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load user failed")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
