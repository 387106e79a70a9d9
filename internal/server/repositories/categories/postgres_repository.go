// Package categories provides the PostgreSQL-backed repository for
// user-scoped vault categories.
package categories

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

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Category, error) {
	query :=
		`SELECT id, user_id, name, icon, created_at FROM categories
		 WHERE user_id = $1
		 ORDER BY name
		 `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) error {
	query :=
		`INSERT INTO categories (id, user_id, name, icon, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.UserID, category.Name, category.Icon, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	query :=
		`SELECT id, user_id, name, icon, created_at FROM categories
		 WHERE id = $1 AND user_id = $2
		 `
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Update modifies a category owned by userID. Zero rows affected means the
// category does not exist for this user and maps to common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, userID, id, name, icon string) error {
	query :=
		`UPDATE categories SET name = $1, icon = $2
		 WHERE id = $3 AND user_id = $4
		 `
	return r.execExpectingRow(ctx, query, name, icon, id, userID)
}

// Delete removes a category owned by userID. Referencing vault entries keep
// existing with their category reference set to NULL by the schema.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
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
