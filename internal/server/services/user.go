// Package services contains server-side business logic. This file implements
// UserService: registration, credential + second-factor login, profile,
// settings, and account removal. Every state change is written in the same
// transaction as its audit record.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/auth"
	"github.com/dmitrijs2005/pivault/internal/server/config"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Session is the result of a successful registration or login.
type Session struct {
	AccessToken     string
	UserID          string
	Email           string
	TOTPEnabled     bool
	Language        string
	AutoLockMinutes int
}

// UserService provides account lifecycle operations. Session tokens are
// stateless: nothing is stored server-side, so Logout only audits.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	guard                 *BruteForceGuard
	hasher                *auth.PasswordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, guard *BruteForceGuard, cfg *config.Config) *UserService {
	params := auth.Argon2Params{
		Time:        cfg.Argon2Time,
		MemoryKB:    cfg.Argon2MemoryKB,
		Parallelism: cfg.Argon2Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	}
	return &UserService{
		db:                    db,
		repomanager:           m,
		guard:                 guard,
		hasher:                auth.NewPasswordHasher(params),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account with a default "General" category and returns
// a fresh session. The email is an identity key and is stored lowercased.
// The existence lookup is only a fast path; the unique index on
// lower(users.email) is the authoritative guard and a constraint violation
// surfaces as ErrorEmailExists as well.
func (s *UserService) Register(ctx context.Context, email, password string, client ClientInfo) (*Session, error) {
	email = strings.ToLower(email)

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorEmailExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	masterKeySalt, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    passwordHash,
		MasterKeySalt:   masterKeySalt,
		Language:        "en",
		AutoLockMinutes: 15,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		defaultCategory := &models.Category{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Name:      "General",
			Icon:      "folder",
			CreatedAt: now,
		}
		if err := s.repomanager.Categories(tx).Create(ctx, defaultCategory); err != nil {
			return fmt.Errorf("error creating default category: %w", err)
		}
		return writeAudit(ctx, tx, s.repomanager, user.ID, AuditActionRegister, client, true)
	})
	if err != nil {
		if errors.Is(err, common.ErrorEmailExists) {
			return nil, common.ErrorEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(user)
}

// Login verifies credentials and, when the account has a second factor
// enabled, the TOTP code. Failed attempts count toward the brute-force
// lockout for the (email, address) pair. The email is compared lowercased,
// the same normalization Register applies before storing.
func (s *UserService) Login(ctx context.Context, email, password, totpCode string, client ClientInfo) (*Session, error) {
	email = strings.ToLower(email)

	blocked, err := s.guard.IsBlocked(ctx, s.db, email, client.IPAddress)
	if err != nil {
		return nil, err
	}
	if blocked {
		if err := writeAudit(ctx, s.db, s.repomanager, "", AuditActionLoginBlocked, client, false); err != nil {
			return nil, err
		}
		return nil, common.ErrTooManyAttempts
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// record the attempt even for unknown emails, so probing
			// a mailbox locks out the same way as guessing a password
			if err := s.guard.RecordFailure(ctx, s.db, email, client.IPAddress); err != nil {
				return nil, err
			}
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.guard.RecordFailure(ctx, tx, email, client.IPAddress); err != nil {
				return err
			}
			return writeAudit(ctx, tx, s.repomanager, user.ID, AuditActionLoginFailed, client, false)
		})
		if err != nil {
			return nil, err
		}
		return nil, common.ErrorUnauthorized
	}

	if user.TOTPEnabled {
		if totpCode == "" {
			return nil, common.ErrTOTPRequired
		}
		if !auth.VerifyTOTPCode(user.TOTPSecret, totpCode) {
			if err := s.guard.RecordFailure(ctx, s.db, email, client.IPAddress); err != nil {
				return nil, err
			}
			return nil, common.ErrInvalidTOTP
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.guard.Clear(ctx, tx, email, client.IPAddress); err != nil {
			return err
		}
		return writeAudit(ctx, tx, s.repomanager, user.ID, AuditActionLogin, client, true)
	})
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// GetProfile returns the account for a validated session subject.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Logout records the action for the audit trail. Tokens are stateless and
// remain formally valid until expiry.
func (s *UserService) Logout(ctx context.Context, userID string, client ClientInfo) error {
	return writeAudit(ctx, s.db, s.repomanager, userID, AuditActionLogout, client, true)
}

// UpdateSettings changes language and/or auto-lock timeout. A nil field is
// left untouched; with both nil the call is a no-op and nothing is audited.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, language *string, autoLockMinutes *int, client ClientInfo) error {
	if language == nil && autoLockMinutes == nil {
		return nil
	}
	if language != nil && *language != "en" && *language != "it" {
		return common.ErrorInvalidInput
	}
	if autoLockMinutes != nil && (*autoLockMinutes < 1 || *autoLockMinutes > 60) {
		return common.ErrorInvalidInput
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	newLanguage := user.Language
	if language != nil {
		newLanguage = *language
	}
	newAutoLock := user.AutoLockMinutes
	if autoLockMinutes != nil {
		newAutoLock = *autoLockMinutes
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateSettings(ctx, userID, newLanguage, newAutoLock); err != nil {
			return fmt.Errorf("error updating settings: %w", err)
		}
		return writeAudit(ctx, tx, s.repomanager, userID, AuditActionSettingsUpdated, client, true)
	})
}

// DeleteAccount removes the user; categories and vault entries go with it
// via foreign keys. The audit record keeps the user id but has no foreign
// key, so it survives the deletion.
func (s *UserService) DeleteAccount(ctx context.Context, userID string, client ClientInfo) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting user: %w", err)
		}
		return writeAudit(ctx, tx, s.repomanager, userID, AuditActionAccountDeleted, client, true)
	})
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{
		AccessToken:     token,
		UserID:          user.ID,
		Email:           user.Email,
		TOTPEnabled:     user.TOTPEnabled,
		Language:        user.Language,
		AutoLockMinutes: user.AutoLockMinutes,
	}, nil
}
