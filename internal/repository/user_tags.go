package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// PostgresUserTagRepository stores user tags in the user_tags table.
type PostgresUserTagRepository struct {
	DB *sql.DB
}

// NewPostgresUserTagRepository creates a new PostgresUserTagRepository.
func NewPostgresUserTagRepository(db *sql.DB) *PostgresUserTagRepository {
	return &PostgresUserTagRepository{DB: db}
}

// List returns the tags of userID ordered by name.
func (r *PostgresUserTagRepository) List(ctx context.Context, userID string) ([]models.UserTagRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, name, color FROM user_tags WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.UserTagRecord, 0)
	for rows.Next() {
		var t models.UserTagRecord
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan user tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user tags: %w", err)
	}
	return tags, nil
}

// Create inserts t and returns the stored row.
func (r *PostgresUserTagRepository) Create(ctx context.Context, t models.UserTagRecord) (models.UserTagRecord, error) {
	var created models.UserTagRecord
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO user_tags (id, user_id, name, color) VALUES ($1, $2, $3, $4) RETURNING id, user_id, name, color`,
		t.ID, t.UserID, t.Name, t.Color,
	).Scan(&created.ID, &created.UserID, &created.Name, &created.Color)
	if err != nil {
		return models.UserTagRecord{}, fmt.Errorf("create user tag: %w", classify(err))
	}
	return created, nil
}
