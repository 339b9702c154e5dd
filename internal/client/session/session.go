// Package session keeps the signed-in user's collections in memory and
// mirrors every change to the remote store before applying it locally.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/validation"
)

// ErrNoUser is returned by mutations while nobody is signed in.
var ErrNoUser = errors.New("no signed-in user")

// Store is the user-scoped remote table store.
type Store interface {
	ListCigars(ctx context.Context, userID string, inWishlist bool) ([]models.CigarRecord, error)
	InsertCigar(ctx context.Context, userID string, r models.CigarRecord) (models.CigarRecord, error)
	UpdateCigar(ctx context.Context, userID string, r models.CigarRecord) (models.CigarRecord, error)
	SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error)
	DeleteCigar(ctx context.Context, userID, id string) error

	ListTastingNotes(ctx context.Context, userID string) ([]models.TastingNoteRecord, error)
	InsertTastingNote(ctx context.Context, userID string, r models.TastingNoteRecord) (models.TastingNoteRecord, error)
	DeleteTastingNote(ctx context.Context, userID, id string) error

	ListUserTags(ctx context.Context, userID string) ([]models.UserTagRecord, error)
	InsertUserTag(ctx context.Context, userID string, r models.UserTagRecord) (models.UserTagRecord, error)

	ListHumidors(ctx context.Context, userID string) ([]models.HumidorRecord, error)
	InsertHumidor(ctx context.Context, userID string, r models.HumidorRecord) (models.HumidorRecord, error)
	UpdateHumidor(ctx context.Context, userID string, r models.HumidorRecord) (models.HumidorRecord, error)
	DeleteHumidor(ctx context.Context, userID, id string) error
}

// State is the lifecycle stage of a Session.
type State int

const (
	// Unauthenticated means no user is set and every collection is empty.
	Unauthenticated State = iota
	// Loading means a user is set and at least one collection load is in flight.
	Loading
	// Ready means every load of the current user has settled.
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unauthenticated"
	}
}

// Session owns the collections of one user at a time. It is safe for concurrent use.
type Session struct {
	store     Store
	log       *zap.Logger
	validator *validation.Validator
	now       func() time.Time

	mu         sync.RWMutex
	userID     string
	generation uint64
	loading    bool
	cigars     []models.Cigar
	wishlist   []models.Cigar
	notes      []models.TastingNote
	tags       []models.UserTag
	humidors   []models.Humidor
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns an unauthenticated session backed by store.
func New(store Store, log *zap.Logger, opts ...Option) *Session {
	s := &Session{
		store:     store,
		log:       log,
		validator: validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUser switches the session to userID.
//
// An empty userID signs out: every collection is cleared and loading is false
// when SetUser returns. Any other id clears the collections and reloads them all
// in parallel; SetUser returns once every load has settled.
func (s *Session) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.userID = userID
	s.cigars, s.wishlist, s.notes, s.tags, s.humidors = nil, nil, nil, nil, nil
	s.loading = userID != ""
	s.mu.Unlock()

	if userID == "" {
		return
	}
	s.load(ctx, gen, userID)
}

// Reload refetches every collection of the current user.
func (s *Session) Reload(ctx context.Context) {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen, userID := s.generation, s.userID
	s.loading = true
	s.mu.Unlock()

	s.load(ctx, gen, userID)
}

// load runs one fetch per collection concurrently. A failed fetch is logged
// and leaves its collection as it was; it never stops the others.
func (s *Session) load(ctx context.Context, gen uint64, userID string) {
	var g errgroup.Group

	g.Go(func() error {
		recs, err := s.store.ListCigars(ctx, userID, false)
		if err != nil {
			s.log.Error("load cigars failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		cigars := mapAll(recs, models.CigarFromRecord)
		s.apply(gen, func() { s.cigars = cigars })
		return nil
	})
	g.Go(func() error {
		recs, err := s.store.ListCigars(ctx, userID, true)
		if err != nil {
			s.log.Error("load wishlist failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		wishlist := mapAll(recs, models.CigarFromRecord)
		s.apply(gen, func() { s.wishlist = wishlist })
		return nil
	})
	g.Go(func() error {
		recs, err := s.store.ListTastingNotes(ctx, userID)
		if err != nil {
			s.log.Error("load tasting notes failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		notes := mapAll(recs, models.TastingNoteFromRecord)
		s.apply(gen, func() { s.notes = notes })
		return nil
	})
	g.Go(func() error {
		recs, err := s.store.ListUserTags(ctx, userID)
		if err != nil {
			s.log.Error("load user tags failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		tags := mapAll(recs, models.UserTagFromRecord)
		s.apply(gen, func() { s.tags = tags })
		return nil
	})
	g.Go(func() error {
		recs, err := s.store.ListHumidors(ctx, userID)
		if err != nil {
			s.log.Error("load humidors failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		humidors := mapAll(recs, models.HumidorFromRecord)
		s.apply(gen, func() { s.humidors = humidors })
		return nil
	})

	_ = g.Wait()
	s.apply(gen, func() { s.loading = false })
}

// apply runs fn under the write lock unless a newer SetUser or Reload has started.
func (s *Session) apply(gen uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	fn()
}

// commit runs fn under the write lock if userID is still the current user.
func (s *Session) commit(userID string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != userID {
		return
	}
	fn()
}

func (s *Session) currentUser() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", ErrNoUser
	}
	return s.userID, nil
}

func mapAll[R, M any](recs []R, fn func(R) M) []M {
	out := make([]M, 0, len(recs))
	for _, r := range recs {
		out = append(out, fn(r))
	}
	return out
}

// UserID returns the current user id, empty when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Loading reports whether a load of the current user is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.userID == "":
		return Unauthenticated
	case s.loading:
		return Loading
	default:
		return Ready
	}
}

// Cigars returns a deep copy of the humidor collection.
func (s *Session) Cigars() []models.Cigar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapAll(s.cigars, models.Cigar.Clone)
}

// Wishlist returns a deep copy of the wishlist.
func (s *Session) Wishlist() []models.Cigar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapAll(s.wishlist, models.Cigar.Clone)
}

// TastingNotes returns a deep copy of the tasting notes.
func (s *Session) TastingNotes() []models.TastingNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapAll(s.notes, models.TastingNote.Clone)
}

// UserTags returns a copy of the user's own tags.
func (s *Session) UserTags() []models.UserTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tags)
}

// AllTags returns the built-in tags followed by the user's own tags.
func (s *Session) AllTags() []models.UserTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(slices.Clone(models.DefaultTags), s.tags...)
}

// Humidors returns the user's humidors, or the virtual default humidor when there are none.
func (s *Session) Humidors() []models.Humidor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.humidors) == 0 {
		return []models.Humidor{defaultHumidor()}
	}
	return mapAll(s.humidors, models.Humidor.Clone)
}

func defaultHumidor() models.Humidor {
	return models.Humidor{
		ID:        models.DefaultHumidorID,
		Name:      "Main Humidor",
		IsDefault: true,
	}
}

// FindCigar looks id up in the humidor and then in the wishlist.
func (s *Session) FindCigar(id string) (models.Cigar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.findCigar(id)
	return c.Clone(), ok
}

func (s *Session) findCigar(id string) (models.Cigar, bool) {
	if i := slices.IndexFunc(s.cigars, func(c models.Cigar) bool { return c.ID == id }); i >= 0 {
		return s.cigars[i], true
	}
	if i := slices.IndexFunc(s.wishlist, func(c models.Cigar) bool { return c.ID == id }); i >= 0 {
		return s.wishlist[i], true
	}
	return models.Cigar{}, false
}
