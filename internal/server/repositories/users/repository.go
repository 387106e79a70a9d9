package users

import (
	"context"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SaveTOTPSecret(ctx context.Context, userID, secret string) error
	EnableTOTP(ctx context.Context, userID string) error
	ClearTOTP(ctx context.Context, userID string) error
	UpdateSettings(ctx context.Context, userID, language string, autoLockMinutes int) error
	Delete(ctx context.Context, userID string) error
}
