package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matched the id and owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejected the row.
	ErrDuplicate = errors.New("record already exists")
	// ErrBadReference is returned when a foreign key names a missing or malformed row.
	ErrBadReference = errors.New("referenced record does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextValue    = "22P02"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// classify maps driver errors onto the package sentinels and leaves others untouched.
func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ErrDuplicate
		case foreignKeyViolation, invalidTextValue:
			return ErrBadReference
		}
	}
	return err
}
