package services

// Shared test doubles: in-memory repositories and a repomanager vending
// them. Transaction boundaries are still exercised with sqlmock.

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	auditlogrepo "github.com/dmitrijs2005/pivault/internal/server/repositories/auditlog"
	categoriesrepo "github.com/dmitrijs2005/pivault/internal/server/repositories/categories"
	entriesrepo "github.com/dmitrijs2005/pivault/internal/server/repositories/entries"
	loginattemptsrepo "github.com/dmitrijs2005/pivault/internal/server/repositories/loginattempts"
	usersrepo "github.com/dmitrijs2005/pivault/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createErr error
	created   []*models.User

	byEmailOut       *models.User
	byEmailErr       error
	byEmailRequested string
	byIDOut    *models.User
	byIDErr    error

	savedSecret    string
	totpEnabled    bool
	totpCleared    bool
	updatedLang    string
	updatedLock    int
	settingsCalled bool
	deleteErr      error
	deletedID      string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u)
	return nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.byEmailRequested = email
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}
func (f *fakeUsersRepo) SaveTOTPSecret(ctx context.Context, userID, secret string) error {
	f.savedSecret = secret
	return nil
}
func (f *fakeUsersRepo) EnableTOTP(ctx context.Context, userID string) error {
	f.totpEnabled = true
	return nil
}
func (f *fakeUsersRepo) ClearTOTP(ctx context.Context, userID string) error {
	f.totpCleared = true
	return nil
}
func (f *fakeUsersRepo) UpdateSettings(ctx context.Context, userID, language string, autoLockMinutes int) error {
	f.settingsCalled = true
	f.updatedLang = language
	f.updatedLock = autoLockMinutes
	return nil
}
func (f *fakeUsersRepo) Delete(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = userID
	return nil
}

type fakeCategoriesRepo struct {
	listOut []*models.Category
	listErr error

	createErr error
	created   []*models.Category

	getOut *models.Category
	getErr error

	updateErr error
	deleteErr error
}

func (f *fakeCategoriesRepo) ListByUser(ctx context.Context, userID string) ([]*models.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}
func (f *fakeCategoriesRepo) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeCategoriesRepo) Update(ctx context.Context, userID, id, name, icon string) error {
	return f.updateErr
}
func (f *fakeCategoriesRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

type fakeEntriesRepo struct {
	listOut []*models.VaultEntry
	listErr error

	createErr error
	created   []*models.VaultEntry

	getOut *models.VaultEntry
	getErr error

	updateErr error
	updated   []*models.VaultEntry
	deleteErr error
}

func (f *fakeEntriesRepo) ListByUser(ctx context.Context, userID, categoryID string) ([]*models.VaultEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.VaultEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, e)
	return nil
}
func (f *fakeEntriesRepo) Get(ctx context.Context, userID, id string) (*models.VaultEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeEntriesRepo) Update(ctx context.Context, e *models.VaultEntry) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, e)
	return nil
}
func (f *fakeEntriesRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

type fakeAttemptsRepo struct {
	countOut int
	countErr error

	insertErr error
	inserted  []*models.LoginAttempt

	deleteErr error
	cleared   bool
}

func (f *fakeAttemptsRepo) CountSince(ctx context.Context, email, ipAddress string, cutoff time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}
func (f *fakeAttemptsRepo) Insert(ctx context.Context, a *models.LoginAttempt) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, a)
	return nil
}
func (f *fakeAttemptsRepo) DeleteFor(ctx context.Context, email, ipAddress string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.cleared = true
	return nil
}

type fakeAuditRepo struct {
	insertErr error
	entries   []*models.AuditLogEntry
}

func (f *fakeAuditRepo) Insert(ctx context.Context, e *models.AuditLogEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) lastAction(t *testing.T) *models.AuditLogEntry {
	t.Helper()
	if len(f.entries) == 0 {
		t.Fatal("expected an audit record")
	}
	return f.entries[len(f.entries)-1]
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	c  *fakeCategoriesRepo
	e  *fakeEntriesRepo
	la *fakeAttemptsRepo
	al *fakeAuditRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{},
		c:  &fakeCategoriesRepo{},
		e:  &fakeEntriesRepo{},
		la: &fakeAttemptsRepo{},
		al: &fakeAuditRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository               { return m.u }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categoriesrepo.Repository     { return m.c }
func (m *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository           { return m.e }
func (m *fakeRepoManager) LoginAttempts(db dbx.DBTX) loginattemptsrepo.Repository { return m.la }
func (m *fakeRepoManager) AuditLog(db dbx.DBTX) auditlogrepo.Repository         { return m.al }
