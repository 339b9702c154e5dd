package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// roundTripperFunc lets a test stand in for the server.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://store.test/", time.Second, WithHTTPClient(&http.Client{Transport: fn, Timeout: time.Second}))
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestListCigars_Query(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet || req.URL.Path != "/api/cigars" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if got := req.URL.Query().Get("user_id"); got != "u1" {
			t.Errorf("user_id = %q", got)
		}
		if got := req.URL.Query().Get("in_wishlist"); got != "true" {
			t.Errorf("in_wishlist = %q", got)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		return respond(200, `[{"id":"c1","brand":"Padron","in_wishlist":true,"tags":["Favorite"]}]`), nil
	})
	c.SetToken("tok")

	got, err := c.ListCigars(context.Background(), "u1", true)
	if err != nil {
		t.Fatalf("ListCigars: %v", err)
	}
	if len(got) != 1 || got[0].Brand != "Padron" || !got[0].InWishlist || got[0].Tags[0] != "Favorite" {
		t.Errorf("unexpected cigars: %+v", got)
	}
}

func TestSetWishlist_PatchBody(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPatch || req.URL.Path != "/api/cigars/c1" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		var body map[string]bool
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if v, ok := body["in_wishlist"]; !ok || v {
			t.Errorf("body = %v; want in_wishlist=false", body)
		}
		return respond(200, `{"id":"c1","in_wishlist":false}`), nil
	})

	got, err := c.SetWishlist(context.Background(), "u1", "c1", false)
	if err != nil || got.ID != "c1" || got.InWishlist {
		t.Fatalf("SetWishlist = %+v, %v", got, err)
	}
}

func TestDo_ServerError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, "cigar not found\n"), nil
	})

	err := c.DeleteCigar(context.Background(), "u1", "c9")
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if re.Status != http.StatusNotFound || re.Message != "cigar not found" {
		t.Errorf("error = %+v", re)
	}
}

func TestDo_NetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	_, err := c.ListUserTags(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Errorf("expected network failure, got %v", err)
	}
}

func TestDo_InvalidJSON(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(200, "not-json"), nil
	})

	_, err := c.ListHumidors(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestInsertTastingNote_SendsRecord(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var rec models.TastingNoteRecord
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.CigarID != "c1" || rec.Rating != 5 {
			t.Errorf("record = %+v", rec)
		}
		rec.ID = "n1"
		b, _ := json.Marshal(rec)
		return respond(201, string(b)), nil
	})

	got, err := c.InsertTastingNote(context.Background(), "u1", models.TastingNoteRecord{CigarID: "c1", Rating: 5})
	if err != nil || got.ID != "n1" {
		t.Fatalf("InsertTastingNote = %+v, %v", got, err)
	}
}

func TestAuthFlow(t *testing.T) {
	var calls []string
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls = append(calls, req.Method+" "+req.URL.Path+" "+req.Header.Get("Authorization"))
		switch req.URL.Path {
		case "/api/auth/signin":
			return respond(200, `{"user":{"id":"u1","email":"a@b.co"},"token":"tok1"}`), nil
		case "/api/auth/user":
			return respond(200, `{"id":"u1","email":"a@b.co"}`), nil
		case "/api/auth/signout":
			return respond(204, ""), nil
		}
		return respond(404, "not found"), nil
	})
	ctx := context.Background()

	sess, err := c.SignIn(ctx, "a@b.co", "secret1")
	if err != nil || sess.User.ID != "u1" || c.Token() != "tok1" {
		t.Fatalf("SignIn = %+v, %v (token %q)", sess, err, c.Token())
	}
	user, err := c.CurrentUser(ctx)
	if err != nil || user.Email != "a@b.co" {
		t.Fatalf("CurrentUser = %+v, %v", user, err)
	}
	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if c.Token() != "" {
		t.Error("token should be cleared after sign out")
	}
	if err := c.SignOut(ctx); err != nil {
		t.Errorf("second SignOut should be a no-op, got %v", err)
	}

	want := []string{
		"POST /api/auth/signin ",
		"GET /api/auth/user Bearer tok1",
		"POST /api/auth/signout Bearer tok1",
	}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q; want %q", calls, want)
	}
}

func TestSignUp_Conflict(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusConflict, "email already registered\n"), nil
	})

	_, err := c.SignUp(context.Background(), "a@b.co", "secret1")
	if err == nil || err.Error() != "email already registered" {
		t.Fatalf("SignUp error = %v", err)
	}
	if c.Token() != "" {
		t.Error("failed sign-up must not set a token")
	}
}
