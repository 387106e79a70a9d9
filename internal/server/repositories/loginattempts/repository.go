package loginattempts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

type Repository interface {
	CountSince(ctx context.Context, email, ipAddress string, cutoff time.Time) (int, error)
	Insert(ctx context.Context, attempt *models.LoginAttempt) error
	DeleteFor(ctx context.Context, email, ipAddress string) error
}
