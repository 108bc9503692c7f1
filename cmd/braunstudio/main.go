// Package main is the entry point for the Braun Studio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roblesbraun/braunstudio/internal/cache"
	"github.com/roblesbraun/braunstudio/internal/config"
	"github.com/roblesbraun/braunstudio/internal/database"
	"github.com/roblesbraun/braunstudio/internal/effects"
	"github.com/roblesbraun/braunstudio/internal/engine"
	"github.com/roblesbraun/braunstudio/internal/guestauth"
	"github.com/roblesbraun/braunstudio/internal/handlers"
	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/router"
	"github.com/roblesbraun/braunstudio/internal/session"
	"github.com/roblesbraun/braunstudio/internal/storage"
	"github.com/roblesbraun/braunstudio/internal/store"
	"github.com/roblesbraun/braunstudio/internal/templates/catalog"
	"github.com/roblesbraun/braunstudio/internal/tenant"
)

// Per-IP request budgets.
const (
	formLimit   = 20 // guest form posts per window
	loginLimit  = 10 // login attempts per window
	limitWindow = time.Minute
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_domain", cfg.BaseDomain,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey: sessions, page cache and guest codes.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	weddingStore := store.NewWeddingStore(db)
	userStore := store.NewUserStore(db)
	guestStore := store.NewGuestStore(db)
	giftStore := store.NewGiftStore(db)

	// Connect to S3-compatible object storage (optional; logos are disabled
	// without it). The interfaces below must receive a true nil then.
	var logos handlers.LogoStore
	var files engine.FileURLer
	if cfg.S3Configured() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		logos, files = storageClient, storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, logo uploads disabled")
	}

	// Template registry and the page engine on top of it.
	registry, err := catalog.New()
	if err != nil {
		slog.Error("failed to register templates", "error", err)
		os.Exit(1)
	}
	eng := engine.New(registry, files)

	// Rendered pages in Valkey. Templates may have changed since the last
	// deploy, so start from an empty cache.
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	pageCache.InvalidateAll(context.Background())

	// Live side effects for public requests; previews always get the
	// simulated set.
	gate := effects.Gate{Live: effects.Set{
		RSVPs:     effects.StoreRSVPs{Guests: guestStore},
		Payments:  effects.LedgerPayments{Gifts: giftStore},
		Messenger: effects.LogMessenger{LogCodes: cfg.IsDev()},
		Codes:     guestauth.New(valkeyClient),
	}}

	tenants := tenant.NewResolver(cfg.BaseDomain, cfg.LocalHosts)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Admin:  handlers.NewAdmin(weddingStore, guestStore, giftStore, registry, logos, pageCache, tenants.SiteURL),
		Couple: handlers.NewCouple(weddingStore, guestStore, logos, pageCache, tenants.SiteURL),
		Auth:   handlers.NewAuth(sessionStore, userStore, cfg.PlatformAdminEmails),
		Public: handlers.NewPublic(weddingStore, eng, gate, pageCache),
	}

	formLimiter := middleware.NewRateLimiter(formLimit, limitWindow)
	defer formLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(loginLimit, limitWindow)
	defer loginLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Config{
		Sessions:      sessionStore,
		Tenants:       tenants,
		FormLimiter:   formLimiter,
		LoginLimiter:  loginLimiter,
		SecureCookies: secureCookies,
	}, h)

	// Create the HTTP server with sensible timeouts. Logo uploads are the
	// slowest requests.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
