package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/auth"
	"github.com/dmitrijs2005/pivault/internal/server/config"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
)

// TOTPService drives the second-factor lifecycle: disabled -> pending
// (secret stored, not yet enforced) -> enabled. Setup may be repeated while
// pending; each call replaces the stored secret.
type TOTPService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      string
}

func NewTOTPService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TOTPService {
	return &TOTPService{db: db, repomanager: m, issuer: cfg.TOTPIssuer}
}

// Setup generates a new shared secret and stores it without enabling
// enforcement. Returns the secret and an otpauth:// provisioning URL for
// authenticator apps.
func (s *TOTPService) Setup(ctx context.Context, userID string) (secret, provisioningURL string, err error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", "", common.ErrorNotFound
		}
		return "", "", fmt.Errorf("error loading user: %w", err)
	}
	if user.TOTPEnabled {
		return "", "", common.ErrTOTPAlreadyEnabled
	}

	secret, provisioningURL, err = auth.GenerateTOTPKey(s.issuer, user.Email)
	if err != nil {
		return "", "", common.ErrorInternal
	}
	if err := repo.SaveTOTPSecret(ctx, userID, secret); err != nil {
		return "", "", fmt.Errorf("error storing totp secret: %w", err)
	}
	return secret, provisioningURL, nil
}

// Confirm verifies a code against the pending secret and turns enforcement
// on. Without a prior Setup there is nothing to confirm. The flip is
// committed together with its audit record.
func (s *TOTPService) Confirm(ctx context.Context, userID, code string, client ClientInfo) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	if user.TOTPSecret == "" {
		return common.ErrTOTPNotSetUp
	}
	if !auth.VerifyTOTPCode(user.TOTPSecret, code) {
		return common.ErrInvalidTOTP
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).EnableTOTP(ctx, userID); err != nil {
			return fmt.Errorf("error enabling totp: %w", err)
		}
		return writeAudit(ctx, tx, s.repomanager, userID, AuditActionTOTPEnabled, client, true)
	})
}

// Disable requires a currently valid code, then drops both enforcement and
// the stored secret, together with the audit record.
func (s *TOTPService) Disable(ctx context.Context, userID, code string, client ClientInfo) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	if !user.TOTPEnabled {
		return common.ErrTOTPNotEnabled
	}
	if !auth.VerifyTOTPCode(user.TOTPSecret, code) {
		return common.ErrInvalidTOTP
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).ClearTOTP(ctx, userID); err != nil {
			return fmt.Errorf("error disabling totp: %w", err)
		}
		return writeAudit(ctx, tx, s.repomanager, userID, AuditActionTOTPDisabled, client, true)
	})
}
