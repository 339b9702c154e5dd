package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/HumiTrack/internal/models"
)

const humidorColumns = `id, user_id, name, description, location, capacity, temperature, humidity, created_date, is_default`

// PostgresHumidorRepository stores humidors in the humidors table.
type PostgresHumidorRepository struct {
	DB *sql.DB
}

// NewPostgresHumidorRepository creates a new PostgresHumidorRepository.
func NewPostgresHumidorRepository(db *sql.DB) *PostgresHumidorRepository {
	return &PostgresHumidorRepository{DB: db}
}

func scanHumidor(s scanner) (models.HumidorRecord, error) {
	var h models.HumidorRecord
	err := s.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Location, &h.Capacity,
		&h.Temperature, &h.Humidity, &h.CreatedDate, &h.IsDefault)
	return h, err
}

// List returns the humidors of userID, oldest first.
func (r *PostgresHumidorRepository) List(ctx context.Context, userID string) ([]models.HumidorRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+humidorColumns+` FROM humidors WHERE user_id = $1 ORDER BY created_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list humidors: %w", err)
	}
	defer rows.Close()

	humidors := make([]models.HumidorRecord, 0)
	for rows.Next() {
		h, err := scanHumidor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan humidor: %w", err)
		}
		humidors = append(humidors, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list humidors: %w", err)
	}
	return humidors, nil
}

// Create inserts h and returns the stored row.
func (r *PostgresHumidorRepository) Create(ctx context.Context, h models.HumidorRecord) (models.HumidorRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO humidors (`+humidorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+humidorColumns,
		h.ID, h.UserID, h.Name, h.Description, h.Location, h.Capacity, h.Temperature, h.Humidity,
		h.CreatedDate, h.IsDefault,
	)
	created, err := scanHumidor(row)
	if err != nil {
		return models.HumidorRecord{}, fmt.Errorf("create humidor: %w", classify(err))
	}
	return created, nil
}

// Update overwrites the descriptive columns of the humidor owned by userID.
func (r *PostgresHumidorRepository) Update(ctx context.Context, userID string, h models.HumidorRecord) (models.HumidorRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE humidors SET
			name = $3, description = $4, location = $5, capacity = $6,
			temperature = $7, humidity = $8, is_default = $9
		WHERE id = $1 AND user_id = $2
		RETURNING `+humidorColumns,
		h.ID, userID, h.Name, h.Description, h.Location, h.Capacity, h.Temperature, h.Humidity, h.IsDefault,
	)
	updated, err := scanHumidor(row)
	if err != nil {
		return models.HumidorRecord{}, fmt.Errorf("update humidor: %w", classify(err))
	}
	return updated, nil
}

// Owned reports whether the humidor exists and belongs to userID.
func (r *PostgresHumidorRepository) Owned(ctx context.Context, userID, id string) (bool, error) {
	var owned bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM humidors WHERE id = $1 AND user_id = $2)`, id, userID,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("check humidor owner: %w", err)
	}
	return owned, nil
}

// Delete removes the humidor owned by userID. Its cigars fall back to no humidor.
func (r *PostgresHumidorRepository) Delete(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, r.DB, "humidors", userID, id)
}
