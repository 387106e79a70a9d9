package categories

import (
	"context"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

// Repository is scoped by owning user on every operation: a category owned
// by another user is indistinguishable from a nonexistent one.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, userID, id string) (*models.Category, error)
	Update(ctx context.Context, userID, id, name, icon string) error
	Delete(ctx context.Context, userID, id string) error
}
