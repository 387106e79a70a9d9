package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/config"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BruteForceGuard throttles password guessing per (email, source address)
// pair. Attempts older than the window are ignored at read time rather than
// reaped, so the attempts table is append-and-delete only.
type BruteForceGuard struct {
	repomanager repomanager.RepositoryManager
	window      time.Duration
	maxAttempts int
}

func NewBruteForceGuard(m repomanager.RepositoryManager, cfg *config.Config) *BruteForceGuard {
	return &BruteForceGuard{
		repomanager: m,
		window:      cfg.BruteForceWindow,
		maxAttempts: cfg.BruteForceMaxAttempts,
	}
}

// IsBlocked reports whether the pair has reached the failure threshold
// within the current window.
func (g *BruteForceGuard) IsBlocked(ctx context.Context, db dbx.DBTX, email, ipAddress string) (bool, error) {
	cutoff := time.Now().UTC().Add(-g.window)
	count, err := g.repomanager.LoginAttempts(db).CountSince(ctx, email, ipAddress, cutoff)
	if err != nil {
		return false, fmt.Errorf("error counting login attempts: %w", err)
	}
	return count >= g.maxAttempts, nil
}

// RecordFailure stores one failed attempt for the pair.
func (g *BruteForceGuard) RecordFailure(ctx context.Context, db dbx.DBTX, email, ipAddress string) error {
	attempt := &models.LoginAttempt{
		ID:        uuid.NewString(),
		Email:     email,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.repomanager.LoginAttempts(db).Insert(ctx, attempt); err != nil {
		return fmt.Errorf("error recording login attempt: %w", err)
	}
	return nil
}

// Clear removes all attempts for the pair, typically after a successful login.
func (g *BruteForceGuard) Clear(ctx context.Context, db dbx.DBTX, email, ipAddress string) error {
	if err := g.repomanager.LoginAttempts(db).DeleteFor(ctx, email, ipAddress); err != nil {
		return fmt.Errorf("error clearing login attempts: %w", err)
	}
	return nil
}
