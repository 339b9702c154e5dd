package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/HumiTrack/internal/models"
)

const noteColumns = `id, user_id, cigar_id, rating, strength_rating, aroma_rating, burn_rating, draw_rating,
	comment, tasting_notes, smoked_date, aging_time, photos`

// PostgresTastingNoteRepository stores tasting notes in the tasting_notes table.
type PostgresTastingNoteRepository struct {
	DB *sql.DB
}

// NewPostgresTastingNoteRepository creates a new PostgresTastingNoteRepository.
func NewPostgresTastingNoteRepository(db *sql.DB) *PostgresTastingNoteRepository {
	return &PostgresTastingNoteRepository{DB: db}
}

func scanNote(s scanner) (models.TastingNoteRecord, error) {
	var n models.TastingNoteRecord
	err := s.Scan(
		&n.ID, &n.UserID, &n.CigarID, &n.Rating, &n.StrengthRating, &n.AromaRating, &n.BurnRating,
		&n.DrawRating, &n.Comment, &n.TastingNotes, &n.SmokedDate, &n.AgingTime, &n.Photos,
	)
	return n, err
}

// List returns the tasting notes of userID, newest first.
func (r *PostgresTastingNoteRepository) List(ctx context.Context, userID string) ([]models.TastingNoteRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM tasting_notes WHERE user_id = $1 ORDER BY smoked_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasting notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.TastingNoteRecord, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasting note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasting notes: %w", err)
	}
	return notes, nil
}

// Create inserts n and returns the stored row.
func (r *PostgresTastingNoteRepository) Create(ctx context.Context, n models.TastingNoteRecord) (models.TastingNoteRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasting_notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+noteColumns,
		n.ID, n.UserID, n.CigarID, n.Rating, n.StrengthRating, n.AromaRating, n.BurnRating,
		n.DrawRating, n.Comment, n.TastingNotes, n.SmokedDate, n.AgingTime, n.Photos,
	)
	created, err := scanNote(row)
	if err != nil {
		return models.TastingNoteRecord{}, fmt.Errorf("create tasting note: %w", classify(err))
	}
	return created, nil
}

// Delete removes the tasting note owned by userID.
func (r *PostgresTastingNoteRepository) Delete(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, r.DB, "tasting_notes", userID, id)
}
