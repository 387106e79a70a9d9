package entries

import (
	"context"

	"github.com/dmitrijs2005/pivault/internal/server/models"
)

// Repository is scoped by owning user on every operation; see the categories
// repository for the NotFound-masking contract.
type Repository interface {
	ListByUser(ctx context.Context, userID, categoryID string) ([]*models.VaultEntry, error)
	Create(ctx context.Context, entry *models.VaultEntry) error
	Get(ctx context.Context, userID, id string) (*models.VaultEntry, error)
	Update(ctx context.Context, entry *models.VaultEntry) error
	Delete(ctx context.Context, userID, id string) error
}
