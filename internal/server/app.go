// Package server initializes and runs the auth server: it opens the
// database, applies migrations, wires the service layer and starts the HTTP
// endpoint, shutting everything down on SIGINT/SIGTERM.
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
	"time"

	"github.com/kartyapp/authcore/internal/logging"
	"github.com/kartyapp/authcore/internal/server/config"
	"github.com/kartyapp/authcore/internal/server/httpapi"
	"github.com/kartyapp/authcore/internal/server/mail"
	"github.com/kartyapp/authcore/internal/server/repositories/repomanager"
	"github.com/kartyapp/authcore/internal/server/services"
)

// resetTokenPurgeInterval is how often expired reset tokens are swept from
// storage. Expired tokens are unusable either way; the sweep only keeps the
// table small.
const resetTokenPurgeInterval = time.Hour

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var mailer mail.Mailer
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.ResetLinkBaseURL)
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	auth := services.NewAuthService(db, rm, mailer, logger, cfg)

	return &App{config: cfg, logger: logger, db: db, authService: auth}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddr, app.authService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startResetTokenPurger(ctx context.Context) {
	ticker := time.NewTicker(resetTokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredResetTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "reset token purge failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired reset tokens", "count", n)
			}
		}
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

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startResetTokenPurger(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
