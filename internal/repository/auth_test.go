package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/lib/pq"
)

func setupAuthMock(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAuthRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	u := models.User{ID: "u1", Email: "a@b.co", PasswordHash: "hash", CreatedAt: time.Now()}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`)).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.CreateUser(context.Background(), models.User{ID: "u1", Email: "a@b.co"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`)).
		WithArgs("a@b.co").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "a@b.co", "hash", created))

	u, err := repo.GetUserByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.PasswordHash != "hash" || !u.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	_, err := repo.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessions(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`)).
		WithArgs("s1", "u1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND user_id = $2 AND expires_at > now())`)).
		WithArgs("s1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateSession(ctx, "s1", "u1", exp); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	active, err := repo.SessionActive(ctx, "s1", "u1")
	if err != nil || !active {
		t.Fatalf("SessionActive = %v, %v; want true, nil", active, err)
	}
	if err := repo.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSessionActive_Error(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).WillReturnError(errors.New("conn reset"))

	if _, err := repo.SessionActive(context.Background(), "s1", "u1"); err == nil {
		t.Error("expected error, got nil")
	}
}
