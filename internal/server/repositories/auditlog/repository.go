package auditlog

import (
	"context"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

// Repository is append-only: audit records are never updated or deleted by
// the server. Retention is an external concern.
type Repository interface {
	Insert(ctx context.Context, entry *models.AuditLogEntry) error
}
