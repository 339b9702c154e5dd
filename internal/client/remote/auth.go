package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// AuthSession is the answer to a successful sign-up or sign-in.
type AuthSession struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and keeps its token.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

// SignIn opens a session and keeps its token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	return c.authenticate(ctx, "/api/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*AuthSession, error) {
	var out AuthSession
	if err := c.do(ctx, http.MethodPost, path, nil, credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignOut closes the server session. The local token is dropped even if the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil, nil)
	c.SetToken("")
	return err
}

// CurrentUser returns the user of the current token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
