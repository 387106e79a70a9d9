// Package httpapi exposes the service layer over a JSON REST surface.
// Handlers stay thin: decode, call the service with the subject identity
// taken from the request context, encode or map the error.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pivault/internal/logging"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/services"
)

// UserService is the account-facing surface consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, email, password string, client services.ClientInfo) (*services.Session, error)
	Login(ctx context.Context, email, password, totpCode string, client services.ClientInfo) (*services.Session, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, userID string, client services.ClientInfo) error
	UpdateSettings(ctx context.Context, userID string, language *string, autoLockMinutes *int, client services.ClientInfo) error
	DeleteAccount(ctx context.Context, userID string, client services.ClientInfo) error
}

// TOTPService is the second-factor lifecycle surface.
type TOTPService interface {
	Setup(ctx context.Context, userID string) (secret, provisioningURL string, err error)
	Confirm(ctx context.Context, userID, code string, client services.ClientInfo) error
	Disable(ctx context.Context, userID, code string, client services.ClientInfo) error
}

// VaultService is the tenant-scoped category/entry surface.
type VaultService interface {
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	CreateCategory(ctx context.Context, userID, name, icon string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, id, name, icon string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
	ListEntries(ctx context.Context, userID, categoryID string) ([]*models.VaultEntry, error)
	CreateEntry(ctx context.Context, userID, categoryID, encryptedData, nonce string) (*models.VaultEntry, error)
	UpdateEntry(ctx context.Context, userID, id, categoryID, encryptedData, nonce string) (*models.VaultEntry, error)
	DeleteEntry(ctx context.Context, userID, id string) error
	Export(ctx context.Context, userID string) (*services.ExportData, error)
	Import(ctx context.Context, userID string, data *services.ExportData, client services.ClientInfo) (*services.ImportResult, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     UserService
	totp      TOTPService
	vault     VaultService
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, us UserService, ts TOTPService, vs VaultService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		totp:      ts,
		vault:     vs,
		jwtSecret: []byte(secretKey),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
