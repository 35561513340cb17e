package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/onbd/internal/onbd/http"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/drivers/postgres"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/drivers/sqlite"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the onboarding service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	redis    *redis.Client // nil unless ONBD_REDIS_URL is set
	cipher   *cryptox.FieldCipher
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	// Services
	authService         *service.AuthService
	inviteService       *service.InviteService
	bootstrapService    *service.BootstrapService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "onbd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initCrypto(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		app.auditService.Close()
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("onbd starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"database", app.cfg.DatabaseDriver,
		"shared_rate_limit", app.redis != nil,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the HTTP server, then background workers, drains the audit
// buffer and finally closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down onbd...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.auditService.Close()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("onbd stopped")
	return nil
}

func (app *Application) initCrypto() error {
	if err := cryptox.SetPasswordCost(app.cfg.BcryptCost); err != nil {
		return fmt.Errorf("failed to set bcrypt cost: %w", err)
	}

	cipher, err := cryptox.NewFieldCipher(app.cfg.AESKey)
	if err != nil {
		return fmt.Errorf("failed to initialize field cipher: %w", err)
	}
	app.cipher = cipher

	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256([]byte(app.cfg.JWTSecret), jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
		Leeway: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.signer = signer
	app.verifier = verifier
	return nil
}

// OpenStore opens and migrates the configured store.
func OpenStore(cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initRedis() error {
	if app.cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse ONBD_REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	app.redis = client
	app.logger.Info("shared rate limiter enabled", "addr", opts.Addr)
	return nil
}

func (app *Application) initServices() {
	app.authService = service.NewAuthService(app.db, app.signer, app.cfg.Issuer, app.cfg.AccessTokenTTL)
	app.inviteService = &service.InviteService{
		Store:  app.db,
		Cipher: app.cipher,
		TTL:    app.cfg.InviteTTL,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Cipher: app.cipher,
		Token:  app.cfg.BootstrapToken,
	}
	app.auditService = service.NewAuditService(app.db, app.logger, app.cfg.AuditBufferSize)
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() error {
	router := httpapi.NewRouter(
		app.verifier,
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
		app.auditService.Hook(),
	)

	if app.redis != nil {
		router.Limiters = httpx.RedisLimiterFactory(app.redis)
	}

	proxies, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse TRUSTED_PROXIES: %w", err)
	}
	router.TrustedProxies = proxies

	router.AuthService = app.authService
	router.InviteService = app.inviteService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
