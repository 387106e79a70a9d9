package loginattempts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCountSince(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().UTC().Add(-15 * time.Minute)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_attempts\s+WHERE email = \$1 AND ip_address = \$2 AND created_at > \$3`).
		WithArgs("a@example.com", "10.0.0.1", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountSince(context.Background(), "a@example.com", "10.0.0.1", cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}

func TestInsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO login_attempts`).
		WithArgs("a1", "a@example.com", "10.0.0.1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &models.LoginAttempt{
		ID: "a1", Email: "a@example.com", IPAddress: "10.0.0.1", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteFor_ZeroRowsIsFine(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM login_attempts WHERE email = \$1 AND ip_address = \$2`).
		WithArgs("a@example.com", "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteFor(context.Background(), "a@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCountSince_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_attempts`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.CountSince(context.Background(), "a@example.com", "10.0.0.1", time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
}
