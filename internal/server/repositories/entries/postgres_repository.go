// Package entries provides the PostgreSQL-backed repository for encrypted
// vault entries. Ciphertext and nonce are stored and returned unchanged.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByUser returns the user's entries newest-first. An empty categoryID
// means no category filter.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID, categoryID string) ([]*models.VaultEntry, error) {
	query :=
		`SELECT id, user_id, category_id, encrypted_data, nonce, created_at, updated_at
		 FROM vault_entries
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 `
	args := []any{userID}
	if categoryID != "" {
		query =
			`SELECT id, user_id, category_id, encrypted_data, nonce, created_at, updated_at
			 FROM vault_entries
			 WHERE user_id = $1 AND category_id = $2
			 ORDER BY updated_at DESC
			 `
		args = append(args, categoryID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultEntry
	for rows.Next() {
		item, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.VaultEntry) error {
	query :=
		`INSERT INTO vault_entries (id, user_id, category_id, encrypted_data, nonce, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, nullable(entry.CategoryID),
		entry.EncryptedData, entry.Nonce, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.VaultEntry, error) {
	query :=
		`SELECT id, user_id, category_id, encrypted_data, nonce, created_at, updated_at
		 FROM vault_entries
		 WHERE id = $1 AND user_id = $2
		 `
	row := r.db.QueryRowContext(ctx, query, id, userID)
	item, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Update replaces ciphertext, nonce, and category for an entry owned by
// entry.UserID. Zero rows affected maps to common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.VaultEntry) error {
	query :=
		`UPDATE vault_entries SET encrypted_data = $1, nonce = $2, category_id = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6
		 `
	return r.execExpectingRow(ctx, query,
		entry.EncryptedData, entry.Nonce, nullable(entry.CategoryID),
		entry.UpdatedAt, entry.ID, entry.UserID)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM vault_entries WHERE id = $1 AND user_id = $2`
	return r.execExpectingRow(ctx, query, id, userID)
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

func scanEntry(scan func(dest ...any) error) (*models.VaultEntry, error) {
	var item models.VaultEntry
	var categoryID sql.NullString
	if err := scan(&item.ID, &item.UserID, &categoryID,
		&item.EncryptedData, &item.Nonce, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.CategoryID = categoryID.String
	return &item, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
