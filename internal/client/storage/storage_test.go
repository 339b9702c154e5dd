package storage

import (
	"testing"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

func review(cigarID, author, comment string) models.Review {
	return models.Review{CigarID: cigarID, Author: author, Comment: comment}
}

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { ls.Close() })
	return ls
}

func TestList_Empty(t *testing.T) {
	ls := newTestStorage(t)

	reviews, err := ls.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", reviews)
	}
}

func TestAdd_PrependsAndAssignsID(t *testing.T) {
	ls := newTestStorage(t)
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ls.now = func() time.Time { return fixed }

	first, err := ls.Add(review("c1", "ann", "smooth draw"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := ls.Add(review("c2", "bob", "too harsh"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Errorf("unexpected ids %q and %q", first.ID, second.ID)
	}
	if !first.Date.Equal(fixed) {
		t.Errorf("Date = %v; want %v", first.Date, fixed)
	}

	reviews, err := ls.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].ID != second.ID || reviews[1].ID != first.ID {
		t.Errorf("expected newest first, got %q then %q", reviews[0].ID, reviews[1].ID)
	}
}

func TestAdd_RequiresAuthorAndComment(t *testing.T) {
	ls := newTestStorage(t)

	if _, err := ls.Add(review("c1", "", "text")); err == nil {
		t.Error("expected error for missing author")
	}
	if _, err := ls.Add(review("c1", "ann", "")); err == nil {
		t.Error("expected error for missing comment")
	}
	reviews, _ := ls.List("")
	if len(reviews) != 0 {
		t.Errorf("expected nothing stored, got %d", len(reviews))
	}
}

func TestList_ByCigar(t *testing.T) {
	ls := newTestStorage(t)
	for _, c := range []string{"c1", "c2", "c1"} {
		if _, err := ls.Add(review(c, "ann", "ok")); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	reviews, err := ls.List("c1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews for c1, got %d", len(reviews))
	}
	for _, r := range reviews {
		if r.CigarID != "c1" {
			t.Errorf("unexpected cigar %q", r.CigarID)
		}
	}
}

func TestLike(t *testing.T) {
	ls := newTestStorage(t)
	r, err := ls.Add(review("c1", "ann", "great"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for range 2 {
		if _, err := ls.Like(r.ID); err != nil {
			t.Fatalf("Like failed: %v", err)
		}
	}

	reviews, _ := ls.List("")
	if reviews[0].Likes != 2 {
		t.Errorf("Likes = %d; want 2", reviews[0].Likes)
	}

	if _, err := ls.Like("missing"); err != ErrReviewNotFound {
		t.Errorf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestOpen_Persists(t *testing.T) {
	dir := t.TempDir()

	ls, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := ls.Add(review("", "ann", "general thoughts")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ls.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	reviews, err := reopened.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Author != "ann" {
		t.Errorf("unexpected reviews after reopen: %+v", reviews)
	}
}
