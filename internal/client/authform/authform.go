// Package authform validates sign-in and sign-up input and turns auth failures into user-facing text.
package authform

import (
	"errors"
	"strings"

	"github.com/atinyakov/HumiTrack/internal/validation"
)

// Local validation failures.
var (
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("Please enter a valid email address")
)

// SignUpSuccess is shown after an account is created.
const SignUpSuccess = "Account created successfully! You are now signed in."

// Form is the content of the authentication form.
type Form struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword"`
	SignUp          bool   `json:"-"`
}

var validate = validation.New()

// Validate checks the form before any remote call.
func (f Form) Validate() error {
	if f.SignUp && f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(f.Password) < 6 {
		return ErrPasswordTooShort
	}
	if err := validate.Validate(f); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Message maps an authentication error to the text shown to the user.
// Unrecognized errors keep their own message.
func Message(err error, signUp bool) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "invalid login credentials") || strings.Contains(msg, "invalid_credentials"):
		if signUp {
			return "An account with this email may already exist. Try signing in."
		}
		return "Invalid email or password. Please check your credentials."
	case strings.Contains(msg, "email not confirmed"):
		return "Please check your email and click the confirmation link before signing in."
	case strings.Contains(msg, "signup disabled"):
		return "New account registration is currently disabled."
	case strings.Contains(msg, "email already registered"):
		return "An account with this email already exists. Try signing in."
	}
	if m := err.Error(); m != "" {
		return m
	}
	return "An unexpected error occurred. Please try again."
}
