package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// ErrNotInWishlist is returned by MoveToHumidor for a cigar that is not on the wishlist.
var ErrNotInWishlist = errors.New("cigar is not on the wishlist")

func (s *Session) fail(op, userID string, err error) error {
	s.log.Error(op+" failed", zap.String("user_id", userID), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

// humidorRef maps the virtual default humidor to no humidor reference.
func humidorRef(id *string) *string {
	if id == nil || *id == "" || *id == models.DefaultHumidorID {
		return nil
	}
	return id
}

func (s *Session) prepareCigar(c models.Cigar, inWishlist bool) (models.Cigar, error) {
	c.InWishlist = inWishlist
	c.HumidorID = humidorRef(c.HumidorID)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := s.validator.Validate(c); err != nil {
		return models.Cigar{}, err
	}
	return c, nil
}

// AddCigar inserts c into the humidor collection and appends the stored cigar.
func (s *Session) AddCigar(ctx context.Context, c models.Cigar) (models.Cigar, error) {
	return s.insertCigar(ctx, "add cigar", c, false)
}

// AddToWishlist inserts c as a wishlist entry and appends the stored cigar to the wishlist.
func (s *Session) AddToWishlist(ctx context.Context, c models.Cigar) (models.Cigar, error) {
	return s.insertCigar(ctx, "add to wishlist", c, true)
}

func (s *Session) insertCigar(ctx context.Context, op string, c models.Cigar, inWishlist bool) (models.Cigar, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.Cigar{}, err
	}
	if c.AddedDate.IsZero() {
		c.AddedDate = s.now()
	}
	c, err = s.prepareCigar(c, inWishlist)
	if err != nil {
		return models.Cigar{}, err
	}

	rec, err := s.store.InsertCigar(ctx, userID, models.CigarToRecord(c, userID))
	if err != nil {
		return models.Cigar{}, s.fail(op, userID, err)
	}
	stored := models.CigarFromRecord(rec)

	s.commit(userID, func() {
		if inWishlist {
			s.wishlist = append(s.wishlist, stored.Clone())
		} else {
			s.cigars = append(s.cigars, stored.Clone())
		}
	})
	return stored, nil
}

func replaceByID(cigars []models.Cigar, c models.Cigar) {
	if i := slices.IndexFunc(cigars, func(x models.Cigar) bool { return x.ID == c.ID }); i >= 0 {
		cigars[i] = c
	}
}

// UpdateCigar replaces the cigar with the same id. A zero added date keeps the stored one.
func (s *Session) UpdateCigar(ctx context.Context, c models.Cigar) (models.Cigar, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.Cigar{}, err
	}
	if c.AddedDate.IsZero() {
		if old, ok := s.FindCigar(c.ID); ok {
			c.AddedDate = old.AddedDate
		}
	}
	c, err = s.prepareCigar(c, c.InWishlist)
	if err != nil {
		return models.Cigar{}, err
	}

	rec, err := s.store.UpdateCigar(ctx, userID, models.CigarToRecord(c, userID))
	if err != nil {
		return models.Cigar{}, s.fail("update cigar", userID, err)
	}
	stored := models.CigarFromRecord(rec)

	s.commit(userID, func() {
		replaceByID(s.cigars, stored.Clone())
		replaceByID(s.wishlist, stored.Clone())
	})
	return stored, nil
}

// DeleteCigar removes the humidor cigar id together with its tasting notes.
func (s *Session) DeleteCigar(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.store.DeleteCigar(ctx, userID, id); err != nil {
		return s.fail("delete cigar", userID, err)
	}

	s.commit(userID, func() {
		s.cigars = slices.DeleteFunc(s.cigars, func(c models.Cigar) bool { return c.ID == id })
		s.pruneNotesFor(id)
	})
	return nil
}

// pruneNotesFor drops every tasting note of cigarID. Caller holds the write lock.
func (s *Session) pruneNotesFor(cigarID string) {
	s.notes = slices.DeleteFunc(s.notes, func(n models.TastingNote) bool { return n.CigarID == cigarID })
}

// RemoveFromWishlist deletes the wishlist entry id.
func (s *Session) RemoveFromWishlist(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.store.DeleteCigar(ctx, userID, id); err != nil {
		return s.fail("remove from wishlist", userID, err)
	}

	s.commit(userID, func() {
		s.wishlist = slices.DeleteFunc(s.wishlist, func(c models.Cigar) bool { return c.ID == id })
		s.pruneNotesFor(id)
	})
	return nil
}

// MoveToHumidor clears the wishlist flag of id and moves the cigar into the humidor collection.
func (s *Session) MoveToHumidor(ctx context.Context, id string) (models.Cigar, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.Cigar{}, err
	}

	s.mu.RLock()
	i := slices.IndexFunc(s.wishlist, func(c models.Cigar) bool { return c.ID == id })
	var cigar models.Cigar
	if i >= 0 {
		cigar = s.wishlist[i].Clone()
	}
	s.mu.RUnlock()
	if i < 0 {
		return models.Cigar{}, ErrNotInWishlist
	}

	if _, err := s.store.SetWishlist(ctx, userID, id, false); err != nil {
		return models.Cigar{}, s.fail("move to humidor", userID, err)
	}
	cigar.InWishlist = false

	s.commit(userID, func() {
		s.wishlist = slices.DeleteFunc(s.wishlist, func(c models.Cigar) bool { return c.ID == id })
		s.cigars = append(s.cigars, cigar.Clone())
	})
	return cigar, nil
}

// AddTastingNote records a smoking session. The smoked date defaults to now and
// the aging time is derived from the cigar's added date when the cigar is known.
func (s *Session) AddTastingNote(ctx context.Context, n models.TastingNote) (models.TastingNote, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.TastingNote{}, err
	}
	if n.SmokedDate.IsZero() {
		n.SmokedDate = s.now()
	}
	if err := s.validator.Validate(n); err != nil {
		return models.TastingNote{}, err
	}
	n.AgingTime = 0
	if c, ok := s.FindCigar(n.CigarID); ok {
		n.AgingTime = models.AgingDays(c.AddedDate, n.SmokedDate)
	}

	rec, err := s.store.InsertTastingNote(ctx, userID, models.TastingNoteToRecord(n, userID))
	if err != nil {
		return models.TastingNote{}, s.fail("add tasting note", userID, err)
	}
	stored := models.TastingNoteFromRecord(rec)

	s.commit(userID, func() { s.notes = append(s.notes, stored.Clone()) })
	return stored, nil
}

// DeleteTastingNote removes the tasting note id.
func (s *Session) DeleteTastingNote(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.store.DeleteTastingNote(ctx, userID, id); err != nil {
		return s.fail("delete tasting note", userID, err)
	}

	s.commit(userID, func() {
		s.notes = slices.DeleteFunc(s.notes, func(n models.TastingNote) bool { return n.ID == id })
	})
	return nil
}

// CreateTag stores a user tag.
func (s *Session) CreateTag(ctx context.Context, t models.UserTag) (models.UserTag, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.UserTag{}, err
	}
	if err := s.validator.Validate(t); err != nil {
		return models.UserTag{}, err
	}

	rec, err := s.store.InsertUserTag(ctx, userID, models.UserTagToRecord(t, userID))
	if err != nil {
		return models.UserTag{}, s.fail("create tag", userID, err)
	}
	stored := models.UserTagFromRecord(rec)

	s.commit(userID, func() { s.tags = append(s.tags, stored) })
	return stored, nil
}

// AddHumidor stores a humidor.
func (s *Session) AddHumidor(ctx context.Context, h models.Humidor) (models.Humidor, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.Humidor{}, err
	}
	if h.CreatedDate.IsZero() {
		h.CreatedDate = s.now()
	}
	if err := s.validator.Validate(h); err != nil {
		return models.Humidor{}, err
	}

	rec, err := s.store.InsertHumidor(ctx, userID, models.HumidorToRecord(h, userID))
	if err != nil {
		return models.Humidor{}, s.fail("add humidor", userID, err)
	}
	stored := models.HumidorFromRecord(rec)

	s.commit(userID, func() { s.humidors = append(s.humidors, stored.Clone()) })
	return stored, nil
}

// UpdateHumidor replaces the humidor with the same id.
func (s *Session) UpdateHumidor(ctx context.Context, h models.Humidor) (models.Humidor, error) {
	userID, err := s.currentUser()
	if err != nil {
		return models.Humidor{}, err
	}
	if err := s.validator.Validate(h); err != nil {
		return models.Humidor{}, err
	}

	rec, err := s.store.UpdateHumidor(ctx, userID, models.HumidorToRecord(h, userID))
	if err != nil {
		return models.Humidor{}, s.fail("update humidor", userID, err)
	}
	stored := models.HumidorFromRecord(rec)

	s.commit(userID, func() {
		if i := slices.IndexFunc(s.humidors, func(x models.Humidor) bool { return x.ID == stored.ID }); i >= 0 {
			s.humidors[i] = stored.Clone()
		}
	})
	return stored, nil
}

// DeleteHumidor removes the humidor id. Its cigars fall back to the default humidor.
func (s *Session) DeleteHumidor(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.store.DeleteHumidor(ctx, userID, id); err != nil {
		return s.fail("delete humidor", userID, err)
	}

	s.commit(userID, func() {
		s.humidors = slices.DeleteFunc(s.humidors, func(h models.Humidor) bool { return h.ID == id })
		clearHumidorRef(s.cigars, id)
		clearHumidorRef(s.wishlist, id)
	})
	return nil
}

func clearHumidorRef(cigars []models.Cigar, humidorID string) {
	for i := range cigars {
		if cigars[i].HumidorID != nil && *cigars[i].HumidorID == humidorID {
			cigars[i].HumidorID = nil
		}
	}
}
