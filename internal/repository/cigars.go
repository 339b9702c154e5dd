package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

const cigarColumns = `id, user_id, brand, name, size, format, country, strength, wrapper, price, quantity,
	ring_gauge, factory, release_year, purchase_location, low_stock_alert, added_date, aging_start_date,
	tags, photo, humidor_id, in_wishlist`

// PostgresCigarRepository stores humidor and wishlist cigars in the cigars table.
type PostgresCigarRepository struct {
	DB *sql.DB
}

// NewPostgresCigarRepository creates a new PostgresCigarRepository.
func NewPostgresCigarRepository(db *sql.DB) *PostgresCigarRepository {
	return &PostgresCigarRepository{DB: db}
}

func scanCigar(s scanner) (models.CigarRecord, error) {
	var c models.CigarRecord
	err := s.Scan(
		&c.ID, &c.UserID, &c.Brand, &c.Name, &c.Size, &c.Format, &c.Country, &c.Strength, &c.Wrapper,
		&c.Price, &c.Quantity, &c.RingGauge, &c.Factory, &c.ReleaseYear, &c.PurchaseLocation,
		&c.LowStockAlert, &c.AddedDate, &c.AgingStartDate, &c.Tags, &c.Photo, &c.HumidorID, &c.InWishlist,
	)
	return c, err
}

// List returns the cigars of userID. A nil inWishlist returns both partitions.
func (r *PostgresCigarRepository) List(ctx context.Context, userID string, inWishlist *bool) ([]models.CigarRecord, error) {
	query := `SELECT ` + cigarColumns + ` FROM cigars WHERE user_id = $1`
	args := []any{userID}
	if inWishlist != nil {
		query += ` AND in_wishlist = $2`
		args = append(args, *inWishlist)
	}
	query += ` ORDER BY added_date DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cigars: %w", err)
	}
	defer rows.Close()

	cigars := make([]models.CigarRecord, 0)
	for rows.Next() {
		c, err := scanCigar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cigar: %w", err)
		}
		cigars = append(cigars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cigars: %w", err)
	}
	return cigars, nil
}

// Create inserts c and returns the stored row.
func (r *PostgresCigarRepository) Create(ctx context.Context, c models.CigarRecord) (models.CigarRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO cigars (`+cigarColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING `+cigarColumns,
		c.ID, c.UserID, c.Brand, c.Name, c.Size, c.Format, c.Country, c.Strength, c.Wrapper,
		c.Price, c.Quantity, c.RingGauge, c.Factory, c.ReleaseYear, c.PurchaseLocation,
		c.LowStockAlert, c.AddedDate, c.AgingStartDate, c.Tags, c.Photo, c.HumidorID, c.InWishlist,
	)
	created, err := scanCigar(row)
	if err != nil {
		return models.CigarRecord{}, fmt.Errorf("create cigar: %w", classify(err))
	}
	return created, nil
}

// Update overwrites every mutable column except in_wishlist of the cigar owned by userID.
// It returns ErrNotFound if the cigar is missing or owned by someone else.
func (r *PostgresCigarRepository) Update(ctx context.Context, userID string, c models.CigarRecord) (models.CigarRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE cigars SET
			brand = $3, name = $4, size = $5, format = $6, country = $7, strength = $8, wrapper = $9,
			price = $10, quantity = $11, ring_gauge = $12, factory = $13, release_year = $14,
			purchase_location = $15, low_stock_alert = $16, added_date = COALESCE($17, added_date), aging_start_date = $18,
			tags = $19, photo = $20, humidor_id = $21
		WHERE id = $1 AND user_id = $2
		RETURNING `+cigarColumns,
		c.ID, userID, c.Brand, c.Name, c.Size, c.Format, c.Country, c.Strength, c.Wrapper,
		c.Price, c.Quantity, c.RingGauge, c.Factory, c.ReleaseYear, c.PurchaseLocation,
		c.LowStockAlert, nullTime(c.AddedDate), c.AgingStartDate, c.Tags, c.Photo, c.HumidorID,
	)
	updated, err := scanCigar(row)
	if err != nil {
		return models.CigarRecord{}, fmt.Errorf("update cigar: %w", classify(err))
	}
	return updated, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// SetWishlist flips the wishlist flag of the cigar owned by userID, keeping its id.
func (r *PostgresCigarRepository) SetWishlist(ctx context.Context, userID, id string, inWishlist bool) (models.CigarRecord, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE cigars SET in_wishlist = $3 WHERE id = $1 AND user_id = $2 RETURNING `+cigarColumns,
		id, userID, inWishlist,
	)
	updated, err := scanCigar(row)
	if err != nil {
		return models.CigarRecord{}, fmt.Errorf("set wishlist: %w", classify(err))
	}
	return updated, nil
}

// Owned reports whether the cigar exists and belongs to userID.
func (r *PostgresCigarRepository) Owned(ctx context.Context, userID, id string) (bool, error) {
	var owned bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cigars WHERE id = $1 AND user_id = $2)`, id, userID,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("check cigar owner: %w", err)
	}
	return owned, nil
}

// Delete removes the cigar owned by userID. Its tasting notes go with it through the foreign key.
func (r *PostgresCigarRepository) Delete(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, r.DB, "cigars", userID, id)
}

// deleteOwned removes one row of table by id and owner and returns ErrNotFound when nothing matched.
func deleteOwned(ctx context.Context, db *sql.DB, table, userID, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("delete from %s: %w", table, ErrNotFound)
	}
	return nil
}
