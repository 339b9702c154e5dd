// Package remote is the HTTP client of the HumiTrack remote store.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// Error is a non-2xx answer of the remote store.
// Message is the plain text body the server wrote.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the remote store over HTTP and carries the access token of the signed-in user.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// New returns a client for the store at baseURL whose requests time out after timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: text}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func userQuery(userID string) url.Values {
	return url.Values{"user_id": {userID}}
}

// ListCigars selects the cigars of userID in one partition.
func (c *Client) ListCigars(ctx context.Context, userID string, inWishlist bool) ([]models.CigarRecord, error) {
	q := userQuery(userID)
	q.Set("in_wishlist", strconv.FormatBool(inWishlist))
	var out []models.CigarRecord
	if err := c.do(ctx, http.MethodGet, "/api/cigars", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertCigar inserts r and returns the stored row.
func (c *Client) InsertCigar(ctx context.Context, userID string, r models.CigarRecord) (models.CigarRecord, error) {
	var out models.CigarRecord
	err := c.do(ctx, http.MethodPost, "/api/cigars", userQuery(userID), r, &out)
	return out, err
}

// UpdateCigar replaces the row r.ID.
func (c *Client) UpdateCigar(ctx context.Context, userID string, r models.CigarRecord) (models.CigarRecord, error) {
	var out models.CigarRecord
	err := c.do(ctx, http.MethodPut, "/api/cigars/"+url.PathEscape(r.ID), userQuery(userID), r, &out)
	return out, err
}

// SetWishlist flips the wishlist flag of the row id.
func (c *Client) SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error) {
	var out models.CigarRecord
	body := map[string]bool{"in_wishlist": inWishlist}
	err := c.do(ctx, http.MethodPatch, "/api/cigars/"+url.PathEscape(id), userQuery(userID), body, &out)
	return out, err
}

// DeleteCigar deletes the row id.
func (c *Client) DeleteCigar(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cigars/"+url.PathEscape(id), userQuery(userID), nil, nil)
}

// ListTastingNotes selects the tasting notes of userID.
func (c *Client) ListTastingNotes(ctx context.Context, userID string) ([]models.TastingNoteRecord, error) {
	var out []models.TastingNoteRecord
	if err := c.do(ctx, http.MethodGet, "/api/tasting_notes", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertTastingNote inserts r and returns the stored row.
func (c *Client) InsertTastingNote(ctx context.Context, userID string, r models.TastingNoteRecord) (models.TastingNoteRecord, error) {
	var out models.TastingNoteRecord
	err := c.do(ctx, http.MethodPost, "/api/tasting_notes", userQuery(userID), r, &out)
	return out, err
}

// DeleteTastingNote deletes the row id.
func (c *Client) DeleteTastingNote(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasting_notes/"+url.PathEscape(id), userQuery(userID), nil, nil)
}

// ListUserTags selects the tags of userID.
func (c *Client) ListUserTags(ctx context.Context, userID string) ([]models.UserTagRecord, error) {
	var out []models.UserTagRecord
	if err := c.do(ctx, http.MethodGet, "/api/user_tags", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertUserTag inserts r and returns the stored row.
func (c *Client) InsertUserTag(ctx context.Context, userID string, r models.UserTagRecord) (models.UserTagRecord, error) {
	var out models.UserTagRecord
	err := c.do(ctx, http.MethodPost, "/api/user_tags", userQuery(userID), r, &out)
	return out, err
}

// ListHumidors selects the humidors of userID.
func (c *Client) ListHumidors(ctx context.Context, userID string) ([]models.HumidorRecord, error) {
	var out []models.HumidorRecord
	if err := c.do(ctx, http.MethodGet, "/api/humidors", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertHumidor inserts r and returns the stored row.
func (c *Client) InsertHumidor(ctx context.Context, userID string, r models.HumidorRecord) (models.HumidorRecord, error) {
	var out models.HumidorRecord
	err := c.do(ctx, http.MethodPost, "/api/humidors", userQuery(userID), r, &out)
	return out, err
}

// UpdateHumidor replaces the row r.ID.
func (c *Client) UpdateHumidor(ctx context.Context, userID string, r models.HumidorRecord) (models.HumidorRecord, error) {
	var out models.HumidorRecord
	err := c.do(ctx, http.MethodPut, "/api/humidors/"+url.PathEscape(r.ID), userQuery(userID), r, &out)
	return out, err
}

// DeleteHumidor deletes the row id.
func (c *Client) DeleteHumidor(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/humidors/"+url.PathEscape(id), userQuery(userID), nil, nil)
}
