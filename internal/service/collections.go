package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/repository"
	"github.com/atinyakov/HumiTrack/internal/validation"
)

// CigarRepository defines the cigar persistence operations.
type CigarRepository interface {
	List(ctx context.Context, userID string, inWishlist *bool) ([]models.CigarRecord, error)
	Create(ctx context.Context, c models.CigarRecord) (models.CigarRecord, error)
	Update(ctx context.Context, userID string, c models.CigarRecord) (models.CigarRecord, error)
	SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error)
	Owned(ctx context.Context, userID, id string) (bool, error)
	Delete(ctx context.Context, userID, id string) error
}

// TastingNoteRepository defines the tasting note persistence operations.
type TastingNoteRepository interface {
	List(ctx context.Context, userID string) ([]models.TastingNoteRecord, error)
	Create(ctx context.Context, n models.TastingNoteRecord) (models.TastingNoteRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

// UserTagRepository defines the user tag persistence operations.
type UserTagRepository interface {
	List(ctx context.Context, userID string) ([]models.UserTagRecord, error)
	Create(ctx context.Context, t models.UserTagRecord) (models.UserTagRecord, error)
}

// HumidorRepository defines the humidor persistence operations.
type HumidorRepository interface {
	List(ctx context.Context, userID string) ([]models.HumidorRecord, error)
	Create(ctx context.Context, h models.HumidorRecord) (models.HumidorRecord, error)
	Update(ctx context.Context, userID string, h models.HumidorRecord) (models.HumidorRecord, error)
	Owned(ctx context.Context, userID, id string) (bool, error)
	Delete(ctx context.Context, userID, id string) error
}

// CollectionService scopes every read and write to the calling user.
type CollectionService struct {
	cigars    CigarRepository
	notes     TastingNoteRepository
	tags      UserTagRepository
	humidors  HumidorRepository
	validator *validation.Validator
	now       func() time.Time
}

// NewCollectionService constructs a CollectionService.
func NewCollectionService(
	cigars CigarRepository,
	notes TastingNoteRepository,
	tags UserTagRepository,
	humidors HumidorRepository,
	v *validation.Validator,
) *CollectionService {
	return &CollectionService{
		cigars:    cigars,
		notes:     notes,
		tags:      tags,
		humidors:  humidors,
		validator: v,
		now:       time.Now,
	}
}

// storeError maps repository sentinels onto domain errors.
func storeError(err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domainerrors.NotFound(entity + " not found")
	case errors.Is(err, repository.ErrDuplicate):
		return domainerrors.AlreadyExists(entity + " already exists")
	case errors.Is(err, repository.ErrBadReference):
		return domainerrors.NotFound(entity + " references a missing record")
	default:
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "%s storage failed", entity)
	}
}

// ensureID keeps a client supplied UUID and replaces anything else.
func ensureID(id string) string {
	if _, err := uuid.Parse(id); err != nil {
		return uuid.NewString()
	}
	return id
}

// checkRef rejects ids that cannot name a stored row.
func checkRef(id, entity string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domainerrors.NotFound(entity + " not found")
	}
	return nil
}

func normalizeHumidorRef(id *string) *string {
	if id == nil || *id == "" || *id == models.DefaultHumidorID {
		return nil
	}
	return id
}

// ListCigars returns the cigars of userID, optionally restricted to one partition.
func (s *CollectionService) ListCigars(ctx context.Context, userID string, inWishlist *bool) ([]models.CigarRecord, error) {
	cigars, err := s.cigars.List(ctx, userID, inWishlist)
	if err != nil {
		return nil, storeError(err, "cigar")
	}
	return cigars, nil
}

func (s *CollectionService) prepareCigar(ctx context.Context, userID string, c models.CigarRecord) (models.CigarRecord, error) {
	if err := s.validator.Validate(models.CigarFromRecord(c)); err != nil {
		return models.CigarRecord{}, err
	}
	c.UserID = &userID
	c.HumidorID = normalizeHumidorRef(c.HumidorID)
	if err := s.checkHumidor(ctx, userID, c.HumidorID); err != nil {
		return models.CigarRecord{}, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, nil
}

// checkHumidor rejects a humidor reference that userID does not own.
func (s *CollectionService) checkHumidor(ctx context.Context, userID string, ref *string) error {
	if ref == nil {
		return nil
	}
	if err := checkRef(*ref, "humidor"); err != nil {
		return err
	}
	owned, err := s.humidors.Owned(ctx, userID, *ref)
	if err != nil {
		return storeError(err, "humidor")
	}
	if !owned {
		return domainerrors.NotFound("humidor not found")
	}
	return nil
}

// CreateCigar stores a new cigar owned by userID.
func (s *CollectionService) CreateCigar(ctx context.Context, userID string, c models.CigarRecord) (models.CigarRecord, error) {
	c, err := s.prepareCigar(ctx, userID, c)
	if err != nil {
		return models.CigarRecord{}, err
	}
	c.ID = ensureID(c.ID)
	if c.AddedDate.IsZero() {
		c.AddedDate = s.now().UTC()
	}

	created, err := s.cigars.Create(ctx, c)
	if err != nil {
		return models.CigarRecord{}, storeError(err, "cigar")
	}
	return created, nil
}

// UpdateCigar replaces the cigar id of userID. The wishlist flag is not touched
// and a zero added date keeps the stored one.
func (s *CollectionService) UpdateCigar(ctx context.Context, userID, id string, c models.CigarRecord) (models.CigarRecord, error) {
	if err := checkRef(id, "cigar"); err != nil {
		return models.CigarRecord{}, err
	}
	c, err := s.prepareCigar(ctx, userID, c)
	if err != nil {
		return models.CigarRecord{}, err
	}
	c.ID = id

	updated, err := s.cigars.Update(ctx, userID, c)
	if err != nil {
		return models.CigarRecord{}, storeError(err, "cigar")
	}
	return updated, nil
}

// SetWishlist moves the cigar between wishlist and humidor.
func (s *CollectionService) SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error) {
	if err := checkRef(id, "cigar"); err != nil {
		return models.CigarRecord{}, err
	}
	updated, err := s.cigars.SetWishlist(ctx, userID, id, inWishlist)
	if err != nil {
		return models.CigarRecord{}, storeError(err, "cigar")
	}
	return updated, nil
}

// DeleteCigar removes the cigar and, through the schema, its tasting notes.
func (s *CollectionService) DeleteCigar(ctx context.Context, userID, id string) error {
	if err := checkRef(id, "cigar"); err != nil {
		return err
	}
	if err := s.cigars.Delete(ctx, userID, id); err != nil {
		return storeError(err, "cigar")
	}
	return nil
}

// ListTastingNotes returns the tasting notes of userID.
func (s *CollectionService) ListTastingNotes(ctx context.Context, userID string) ([]models.TastingNoteRecord, error) {
	notes, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, storeError(err, "tasting note")
	}
	return notes, nil
}

// CreateTastingNote stores a note for a cigar owned by userID.
func (s *CollectionService) CreateTastingNote(ctx context.Context, userID string, n models.TastingNoteRecord) (models.TastingNoteRecord, error) {
	if err := s.validator.Validate(models.TastingNoteFromRecord(n)); err != nil {
		return models.TastingNoteRecord{}, err
	}

	if err := checkRef(n.CigarID, "cigar"); err != nil {
		return models.TastingNoteRecord{}, err
	}
	owned, err := s.cigars.Owned(ctx, userID, n.CigarID)
	if err != nil {
		return models.TastingNoteRecord{}, storeError(err, "cigar")
	}
	if !owned {
		return models.TastingNoteRecord{}, domainerrors.NotFound("cigar not found")
	}

	n.ID = ensureID(n.ID)
	n.UserID = userID
	if n.SmokedDate.IsZero() {
		n.SmokedDate = s.now().UTC()
	}
	if n.AgingTime < 0 {
		n.AgingTime = 0
	}
	if n.TastingNotes == nil {
		n.TastingNotes = []string{}
	}
	if n.Photos == nil {
		n.Photos = []string{}
	}

	created, err := s.notes.Create(ctx, n)
	if err != nil {
		return models.TastingNoteRecord{}, storeError(err, "tasting note")
	}
	return created, nil
}

// DeleteTastingNote removes one note of userID.
func (s *CollectionService) DeleteTastingNote(ctx context.Context, userID, id string) error {
	if err := checkRef(id, "tasting note"); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, userID, id); err != nil {
		return storeError(err, "tasting note")
	}
	return nil
}

// ListUserTags returns the tags of userID.
func (s *CollectionService) ListUserTags(ctx context.Context, userID string) ([]models.UserTagRecord, error) {
	tags, err := s.tags.List(ctx, userID)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	return tags, nil
}

// CreateUserTag stores a new tag for userID.
func (s *CollectionService) CreateUserTag(ctx context.Context, userID string, t models.UserTagRecord) (models.UserTagRecord, error) {
	if err := s.validator.Validate(models.UserTagFromRecord(t)); err != nil {
		return models.UserTagRecord{}, err
	}
	t.ID = ensureID(t.ID)
	t.UserID = userID

	created, err := s.tags.Create(ctx, t)
	if err != nil {
		return models.UserTagRecord{}, storeError(err, "tag")
	}
	return created, nil
}

// ListHumidors returns the humidors of userID.
func (s *CollectionService) ListHumidors(ctx context.Context, userID string) ([]models.HumidorRecord, error) {
	humidors, err := s.humidors.List(ctx, userID)
	if err != nil {
		return nil, storeError(err, "humidor")
	}
	return humidors, nil
}

// CreateHumidor stores a new humidor for userID.
func (s *CollectionService) CreateHumidor(ctx context.Context, userID string, h models.HumidorRecord) (models.HumidorRecord, error) {
	if err := s.validator.Validate(models.HumidorFromRecord(h)); err != nil {
		return models.HumidorRecord{}, err
	}
	h.ID = ensureID(h.ID)
	h.UserID = userID
	if h.CreatedDate.IsZero() {
		h.CreatedDate = s.now().UTC()
	}

	created, err := s.humidors.Create(ctx, h)
	if err != nil {
		return models.HumidorRecord{}, storeError(err, "humidor")
	}
	return created, nil
}

// UpdateHumidor replaces the humidor id of userID.
func (s *CollectionService) UpdateHumidor(ctx context.Context, userID, id string, h models.HumidorRecord) (models.HumidorRecord, error) {
	if err := checkRef(id, "humidor"); err != nil {
		return models.HumidorRecord{}, err
	}
	if err := s.validator.Validate(models.HumidorFromRecord(h)); err != nil {
		return models.HumidorRecord{}, err
	}
	h.ID = id

	updated, err := s.humidors.Update(ctx, userID, h)
	if err != nil {
		return models.HumidorRecord{}, storeError(err, "humidor")
	}
	return updated, nil
}

// DeleteHumidor removes the humidor id of userID.
func (s *CollectionService) DeleteHumidor(ctx context.Context, userID, id string) error {
	if err := checkRef(id, "humidor"); err != nil {
		return err
	}
	if err := s.humidors.Delete(ctx, userID, id); err != nil {
		return storeError(err, "humidor")
	}
	return nil
}
