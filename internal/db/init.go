// Package db opens the PostgreSQL connection, creates the schema and runs
// periodic maintenance against it.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS humidors (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    location TEXT,
    capacity INTEGER,
    temperature DOUBLE PRECISION,
    humidity DOUBLE PRECISION,
    created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    is_default BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS cigars (
    id UUID PRIMARY KEY,
    user_id UUID REFERENCES users(id) ON DELETE CASCADE,
    brand TEXT NOT NULL,
    name TEXT NOT NULL,
    size TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL DEFAULT '',
    country TEXT NOT NULL DEFAULT '',
    strength TEXT NOT NULL,
    wrapper TEXT NOT NULL DEFAULT '',
    price NUMERIC(10,2) NOT NULL DEFAULT 0,
    quantity INTEGER NOT NULL DEFAULT 0,
    ring_gauge INTEGER,
    factory TEXT,
    release_year INTEGER,
    purchase_location TEXT,
    low_stock_alert INTEGER,
    added_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    aging_start_date TIMESTAMPTZ,
    tags TEXT[] NOT NULL DEFAULT '{}',
    photo TEXT,
    humidor_id UUID REFERENCES humidors(id) ON DELETE SET NULL,
    in_wishlist BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS cigars_user_wishlist_idx ON cigars (user_id, in_wishlist);

CREATE TABLE IF NOT EXISTS tasting_notes (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    cigar_id UUID NOT NULL REFERENCES cigars(id) ON DELETE CASCADE,
    rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    strength_rating INTEGER,
    aroma_rating INTEGER,
    burn_rating INTEGER,
    draw_rating INTEGER,
    comment TEXT,
    tasting_notes TEXT[] NOT NULL DEFAULT '{}',
    smoked_date TIMESTAMPTZ NOT NULL,
    aging_time INTEGER NOT NULL DEFAULT 0,
    photos TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS user_tags (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT ''
);
`

// InitPostgres opens the database at dsn, verifies the connection and creates the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates all tables and indexes that do not exist yet.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
