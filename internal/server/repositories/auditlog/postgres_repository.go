// Package auditlog provides the PostgreSQL-backed append-only audit trail.
package auditlog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert appends one audit record. UserID may be empty for unauthenticated
// actors (e.g. a blocked login) and is stored as NULL.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	query :=
		`INSERT INTO audit_log (id, user_id, action, ip_address, user_agent, success, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	var userID any
	if entry.UserID != "" {
		userID = entry.UserID
	}
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, userID, entry.Action, entry.IPAddress, entry.UserAgent,
		entry.Success, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
