// Package users provides the PostgreSQL-backed repository for user records.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row. A duplicate email surfaces as
// common.ErrorEmailExists: the unique index is the authoritative guard
// against the check-then-insert race at the service layer.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash, master_key_salt, language, auto_lock_minutes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.MasterKeySalt,
		user.Language, user.AutoLockMinutes, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorEmailExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, master_key_salt, totp_secret, totp_enabled, language, auto_lock_minutes, created_at, updated_at
		 FROM users
		 WHERE email = $1
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, master_key_salt, totp_secret, totp_enabled, language, auto_lock_minutes, created_at, updated_at
		 FROM users
		 WHERE id = $1
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// SaveTOTPSecret stores an unconfirmed second-factor secret.
func (r *PostgresRepository) SaveTOTPSecret(ctx context.Context, userID, secret string) error {
	query :=
		`UPDATE users SET totp_secret = $1, updated_at = $2
		 WHERE id = $3
		 `
	return r.execExpectingRow(ctx, query, secret, time.Now().UTC(), userID)
}

// EnableTOTP marks the stored secret as confirmed and enforced at login.
func (r *PostgresRepository) EnableTOTP(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET totp_enabled = TRUE, updated_at = $1
		 WHERE id = $2
		 `
	return r.execExpectingRow(ctx, query, time.Now().UTC(), userID)
}

// ClearTOTP disables the second factor and wipes the stored secret.
func (r *PostgresRepository) ClearTOTP(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET totp_enabled = FALSE, totp_secret = NULL, updated_at = $1
		 WHERE id = $2
		 `
	return r.execExpectingRow(ctx, query, time.Now().UTC(), userID)
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, userID, language string, autoLockMinutes int) error {
	query :=
		`UPDATE users SET language = $1, auto_lock_minutes = $2, updated_at = $3
		 WHERE id = $4
		 `
	return r.execExpectingRow(ctx, query, language, autoLockMinutes, time.Now().UTC(), userID)
}

// Delete removes the user; categories and vault entries go with it via
// ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID)
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var totpSecret sql.NullString

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.MasterKeySalt,
		&totpSecret, &user.TOTPEnabled, &user.Language, &user.AutoLockMinutes,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.TOTPSecret = totpSecret.String
	return user, nil
}

func (r *PostgresRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
