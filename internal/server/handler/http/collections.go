package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
	"github.com/atinyakov/HumiTrack/internal/middleware"
	"github.com/atinyakov/HumiTrack/internal/models"
)

// CollectionService defines the user-scoped operations behind the table routes.
type CollectionService interface {
	ListCigars(ctx context.Context, userID string, inWishlist *bool) ([]models.CigarRecord, error)
	CreateCigar(ctx context.Context, userID string, c models.CigarRecord) (models.CigarRecord, error)
	UpdateCigar(ctx context.Context, userID, id string, c models.CigarRecord) (models.CigarRecord, error)
	SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error)
	DeleteCigar(ctx context.Context, userID, id string) error

	ListTastingNotes(ctx context.Context, userID string) ([]models.TastingNoteRecord, error)
	CreateTastingNote(ctx context.Context, userID string, n models.TastingNoteRecord) (models.TastingNoteRecord, error)
	DeleteTastingNote(ctx context.Context, userID, id string) error

	ListUserTags(ctx context.Context, userID string) ([]models.UserTagRecord, error)
	CreateUserTag(ctx context.Context, userID string, t models.UserTagRecord) (models.UserTagRecord, error)

	ListHumidors(ctx context.Context, userID string) ([]models.HumidorRecord, error)
	CreateHumidor(ctx context.Context, userID string, h models.HumidorRecord) (models.HumidorRecord, error)
	UpdateHumidor(ctx context.Context, userID, id string, h models.HumidorRecord) (models.HumidorRecord, error)
	DeleteHumidor(ctx context.Context, userID, id string) error
}

// CollectionHandler serves the cigars, tasting_notes, user_tags and humidors routes.
type CollectionHandler struct {
	Service CollectionService
	Log     *zap.Logger
}

// WishlistPatch is the body of PATCH /api/cigars/{id}.
type WishlistPatch struct {
	InWishlist *bool `json:"in_wishlist"`
}

// scope returns the authenticated user id.
// A user_id query parameter naming anyone else is forbidden.
func scope(r *http.Request) (string, error) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		return "", domainerrors.Unauthorized("unauthorized")
	}
	if q := r.URL.Query().Get("user_id"); q != "" && q != userID {
		return "", domainerrors.Forbidden("user_id does not match the authenticated user")
	}
	return userID, nil
}

// ListCigars handles GET /api/cigars?user_id=&in_wishlist=.
func (h *CollectionHandler) ListCigars(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var inWishlist *bool
	if raw := r.URL.Query().Get("in_wishlist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, h.Log, domainerrors.Validation("in_wishlist must be true or false"))
			return
		}
		inWishlist = &v
	}

	cigars, err := h.Service.ListCigars(r.Context(), userID, inWishlist)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, cigars)
}

// CreateCigar handles POST /api/cigars.
func (h *CollectionHandler) CreateCigar(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.CigarRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	created, err := h.Service.CreateCigar(r.Context(), userID, rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCigar handles PUT /api/cigars/{id}.
func (h *CollectionHandler) UpdateCigar(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.CigarRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	updated, err := h.Service.UpdateCigar(r.Context(), userID, chi.URLParam(r, "id"), rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// PatchCigar handles PATCH /api/cigars/{id}, which only moves a cigar between wishlist and humidor.
func (h *CollectionHandler) PatchCigar(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var patch WishlistPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if patch.InWishlist == nil {
		writeError(w, h.Log, domainerrors.Validation("in_wishlist is required"))
		return
	}

	updated, err := h.Service.SetWishlist(r.Context(), userID, chi.URLParam(r, "id"), *patch.InWishlist)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCigar handles DELETE /api/cigars/{id}.
func (h *CollectionHandler) DeleteCigar(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteCigar)
}

// ListTastingNotes handles GET /api/tasting_notes.
func (h *CollectionHandler) ListTastingNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	notes, err := h.Service.ListTastingNotes(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateTastingNote handles POST /api/tasting_notes.
func (h *CollectionHandler) CreateTastingNote(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.TastingNoteRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	created, err := h.Service.CreateTastingNote(r.Context(), userID, rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteTastingNote handles DELETE /api/tasting_notes/{id}.
func (h *CollectionHandler) DeleteTastingNote(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteTastingNote)
}

// ListUserTags handles GET /api/user_tags.
func (h *CollectionHandler) ListUserTags(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	tags, err := h.Service.ListUserTags(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateUserTag handles POST /api/user_tags.
func (h *CollectionHandler) CreateUserTag(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.UserTagRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	created, err := h.Service.CreateUserTag(r.Context(), userID, rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListHumidors handles GET /api/humidors.
func (h *CollectionHandler) ListHumidors(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	humidors, err := h.Service.ListHumidors(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, humidors)
}

// CreateHumidor handles POST /api/humidors.
func (h *CollectionHandler) CreateHumidor(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.HumidorRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	created, err := h.Service.CreateHumidor(r.Context(), userID, rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateHumidor handles PUT /api/humidors/{id}.
func (h *CollectionHandler) UpdateHumidor(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var rec models.HumidorRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, h.Log, err)
		return
	}

	updated, err := h.Service.UpdateHumidor(r.Context(), userID, chi.URLParam(r, "id"), rec)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteHumidor handles DELETE /api/humidors/{id}.
func (h *CollectionHandler) DeleteHumidor(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteHumidor)
}

func (h *CollectionHandler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, userID, id string) error) {
	userID, err := scope(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := del(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
