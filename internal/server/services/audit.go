package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ClientInfo carries request metadata recorded alongside audited actions.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// Audited action names. These are part of the stored data contract, do not
// rename without a migration.
const (
	AuditActionRegister       = "register"
	AuditActionLogin          = "login"
	AuditActionLoginFailed    = "login_failed"
	AuditActionLoginBlocked   = "login_blocked"
	AuditActionLogout          = "logout"
	AuditActionTOTPEnabled     = "totp_enabled"
	AuditActionTOTPDisabled    = "totp_disabled"
	AuditActionSettingsUpdated = "settings_updated"
	AuditActionAccountDeleted  = "account_deleted"
	AuditActionVaultImported   = "vault_imported"
)

// writeAudit appends one audit record. userID may be empty when the action
// could not be attributed to an account (e.g. a blocked login).
func writeAudit(ctx context.Context, db dbx.DBTX, m repomanager.RepositoryManager, userID, action string, client ClientInfo, success bool) error {
	entry := &models.AuditLogEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   success,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.AuditLog(db).Insert(ctx, entry); err != nil {
		return fmt.Errorf("error writing audit record: %w", err)
	}
	return nil
}
