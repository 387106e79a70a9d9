package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	maxCategoryNameLength = 50
	defaultCategoryIcon   = "folder"
	exportFormatVersion   = "1.0"
)

// ExportedCategory and ExportedEntry form the explicit export/import schema.
// Ciphertext and nonce are opaque to the server and pass through unmodified.
type ExportedCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

type ExportedEntry struct {
	ID            string    `json:"id"`
	EncryptedData string    `json:"encrypted_data"`
	Nonce         string    `json:"nonce"`
	CategoryID    string    `json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ExportData struct {
	Entries    []ExportedEntry    `json:"entries"`
	Categories []ExportedCategory `json:"categories"`
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
}

// ImportResult reports how many records an import created.
type ImportResult struct {
	ImportedEntries    int
	ImportedCategories int
}

// VaultService manages per-user categories and encrypted entries. Every
// operation takes the subject identity explicitly and repositories scope
// each query by it, so a foreign or missing resource uniformly reads as
// ErrorNotFound.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

// --- categories ---

func (s *VaultService) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	list, err := s.repomanager.Categories(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return list, nil
}

func (s *VaultService) CreateCategory(ctx context.Context, userID, name, icon string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}
	category := &models.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repomanager.Categories(s.db).Create(ctx, category); err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return category, nil
}

func (s *VaultService) UpdateCategory(ctx context.Context, userID, id, name, icon string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}
	repo := s.repomanager.Categories(s.db)
	if err := repo.Update(ctx, userID, id, name, icon); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating category: %w", err)
	}
	category, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading category: %w", err)
	}
	return category, nil
}

func (s *VaultService) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Categories(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}

// --- entries ---

// ListEntries returns the user's entries, newest update first. An empty
// categoryID means no filtering.
func (s *VaultService) ListEntries(ctx context.Context, userID, categoryID string) ([]*models.VaultEntry, error) {
	list, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return list, nil
}

func (s *VaultService) CreateEntry(ctx context.Context, userID, categoryID, encryptedData, nonce string) (*models.VaultEntry, error) {
	if encryptedData == "" || nonce == "" {
		return nil, common.ErrorInvalidInput
	}
	now := time.Now().UTC()
	entry := &models.VaultEntry{
		ID:            uuid.NewString(),
		UserID:        userID,
		CategoryID:    categoryID,
		EncryptedData: encryptedData,
		Nonce:         nonce,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repomanager.Entries(s.db).Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return entry, nil
}

func (s *VaultService) UpdateEntry(ctx context.Context, userID, id, categoryID, encryptedData, nonce string) (*models.VaultEntry, error) {
	if encryptedData == "" || nonce == "" {
		return nil, common.ErrorInvalidInput
	}
	repo := s.repomanager.Entries(s.db)
	entry, err := repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading entry: %w", err)
	}

	entry.CategoryID = categoryID
	entry.EncryptedData = encryptedData
	entry.Nonce = nonce
	entry.UpdatedAt = time.Now().UTC()

	if err := repo.Update(ctx, entry); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating entry: %w", err)
	}
	return entry, nil
}

func (s *VaultService) DeleteEntry(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

// --- export / import ---

// Export snapshots the user's categories and entries. The payload keeps the
// original ids so that entry-category links survive a later Import.
func (s *VaultService) Export(ctx context.Context, userID string) (*ExportData, error) {
	entryList, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	categoryList, err := s.repomanager.Categories(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	data := &ExportData{
		Entries:    make([]ExportedEntry, 0, len(entryList)),
		Categories: make([]ExportedCategory, 0, len(categoryList)),
		Version:    exportFormatVersion,
		ExportedAt: time.Now().UTC(),
	}
	for _, e := range entryList {
		data.Entries = append(data.Entries, ExportedEntry{
			ID:            e.ID,
			EncryptedData: e.EncryptedData,
			Nonce:         e.Nonce,
			CategoryID:    e.CategoryID,
			CreatedAt:     e.CreatedAt,
			UpdatedAt:     e.UpdatedAt,
		})
	}
	for _, c := range categoryList {
		data.Categories = append(data.Categories, ExportedCategory{
			ID:        c.ID,
			Name:      c.Name,
			Icon:      c.Icon,
			CreatedAt: c.CreatedAt,
		})
	}
	return data, nil
}

// Import recreates the payload's categories and entries under the importing
// user with fresh ids and timestamps. Category references are remapped
// through the old-id to new-id table built while importing categories; an
// entry whose category is not part of the payload imports without one.
// Malformed records fail the whole import, nothing is partially applied;
// the audit record commits with the imported rows.
func (s *VaultService) Import(ctx context.Context, userID string, data *ExportData, client ClientInfo) (*ImportResult, error) {
	for _, c := range data.Categories {
		if err := validateCategoryName(c.Name); err != nil {
			return nil, err
		}
	}
	for _, e := range data.Entries {
		if e.EncryptedData == "" || e.Nonce == "" {
			return nil, common.ErrorInvalidInput
		}
	}

	result := &ImportResult{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		categoryMap := make(map[string]string, len(data.Categories))

		for _, c := range data.Categories {
			icon := c.Icon
			if icon == "" {
				icon = defaultCategoryIcon
			}
			category := &models.Category{
				ID:        uuid.NewString(),
				UserID:    userID,
				Name:      c.Name,
				Icon:      icon,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.repomanager.Categories(tx).Create(ctx, category); err != nil {
				return fmt.Errorf("error importing category: %w", err)
			}
			categoryMap[c.ID] = category.ID
			result.ImportedCategories++
		}

		for _, e := range data.Entries {
			now := time.Now().UTC()
			entry := &models.VaultEntry{
				ID:            uuid.NewString(),
				UserID:        userID,
				CategoryID:    categoryMap[e.CategoryID],
				EncryptedData: e.EncryptedData,
				Nonce:         e.Nonce,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.repomanager.Entries(tx).Create(ctx, entry); err != nil {
				return fmt.Errorf("error importing entry: %w", err)
			}
			result.ImportedEntries++
		}
		return writeAudit(ctx, tx, s.repomanager, userID, AuditActionVaultImported, client, true)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateCategoryName(name string) error {
	if name == "" || len(name) > maxCategoryNameLength {
		return common.ErrorInvalidInput
	}
	return nil
}
