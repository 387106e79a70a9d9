// Package server wires configuration, storage, services, and the HTTP
// endpoint into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/logging"
	"github.com/dmitrijs2005/pivault/internal/server/config"
	"github.com/dmitrijs2005/pivault/internal/server/httpapi"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pivault/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	totpService *services.TOTPService
	vault       *services.VaultService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	// Without a persistent secret every restart invalidates all sessions.
	if cfg.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		cfg.SecretKey = secret
		logger.Warn(ctx, "No secret key configured, generated a random one; sessions will not survive a restart")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	guard := services.NewBruteForceGuard(rm, cfg)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, guard, cfg),
		totpService: services.NewTOTPService(db, rm, cfg),
		vault:       services.NewVaultService(db, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(
		app.config.EndpointAddr,
		app.logger,
		app.userService,
		app.totpService,
		app.vault,
		app.config.SecretKey,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
}
