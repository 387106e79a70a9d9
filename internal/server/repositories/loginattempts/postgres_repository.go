// Package loginattempts provides the PostgreSQL-backed store behind the
// brute-force guard. Stale rows are filtered at read time by the cutoff
// argument rather than evicted by a background task.
package loginattempts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CountSince counts failed attempts for the literal (email, ip) pair newer
// than cutoff. Row counting cannot go below zero under concurrent writes.
func (r *PostgresRepository) CountSince(ctx context.Context, email, ipAddress string, cutoff time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM login_attempts
		 WHERE email = $1 AND ip_address = $2 AND created_at > $3
		 `
	var n int
	if err := r.db.QueryRowContext(ctx, query, email, ipAddress, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, attempt *models.LoginAttempt) error {
	query :=
		`INSERT INTO login_attempts (id, email, ip_address, created_at)
		 VALUES ($1, $2, $3, $4)
		 `
	_, err := r.db.ExecContext(ctx, query,
		attempt.ID, attempt.Email, attempt.IPAddress, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteFor removes all attempts for the pair, including stale ones. Called
// on successful login; deleting zero rows is not an error.
func (r *PostgresRepository) DeleteFor(ctx context.Context, email, ipAddress string) error {
	query := `DELETE FROM login_attempts WHERE email = $1 AND ip_address = $2`
	if _, err := r.db.ExecContext(ctx, query, email, ipAddress); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
