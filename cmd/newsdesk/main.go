// Package main is the entry point for the newsdesk API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/account"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/editorial"
	"newsdesk/internal/events"
	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/router"
	"newsdesk/internal/session"
	"newsdesk/internal/storage"
	"newsdesk/internal/store"
	"newsdesk/internal/store/memory"
)

// repositories are the backends selected by STORE_DRIVER.
type repositories struct {
	users         account.UserRepository
	articles      editorial.ArticleRepository
	sections      editorial.SectionRepository
	people        editorial.UserRepository
	notifications editorial.NotificationRepository
	close         func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	// Valkey backs sessions, reset tokens, the public cache and live
	// notification signals.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	publicCache := cache.NewResponseCache(valkeyClient, cfg.PublicCacheTTL)

	accounts := account.NewService(repos.users, account.NewValkeyTokens(valkeyClient), logger)
	svc := editorial.NewService(editorial.Deps{
		Articles:      repos.articles,
		Sections:      repos.sections,
		Users:         repos.people,
		Notifications: repos.notifications,
		Feed:          events.NewValkey(valkeyClient),
		Logger:        logger,
	})
	slog.Info("notifications use a single store with per-recipient rows")

	// Object storage is optional; without it cover uploads answer 503.
	var covers handlers.CoverStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case storageClient != nil:
		covers = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	default:
		slog.Warn("s3 storage not configured, cover uploads disabled")
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	notifications := handlers.NewNotifications(svc)
	r := router.New(sessionStore, router.Handlers{
		Auth:          handlers.NewAuth(accounts, sessionStore, cfg.IsDev()),
		Public:        handlers.NewPublic(svc, publicCache),
		Articles:      handlers.NewArticles(svc, publicCache),
		Sections:      handlers.NewSections(svc, publicCache),
		Notifications: notifications,
		Uploads:       handlers.NewUploads(covers),
	}, router.Options{
		SecureCookies: secureCookies,
		LoginLimiter:  loginLimiter,
	})

	// The notification stream clears its own write deadline.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv.RegisterOnShutdown(notifications.Shutdown)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		srv.Close()
		return
	}

	slog.Info("server stopped gracefully")
}

// openRepositories connects the configured backend. PostgreSQL is migrated
// on start and seeded in development; the memory driver is seeded always.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.StoreDriver == config.DriverMemory {
		users := memory.NewUserStore()
		sections := memory.NewSectionStore()
		if err := seedMemory(ctx, users, sections); err != nil {
			return nil, err
		}
		slog.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			users:         users,
			articles:      memory.NewArticleStore(),
			sections:      sections,
			people:        users,
			notifications: memory.NewNotificationStore(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return postgresRepositories(db), nil
}

func postgresRepositories(db *sql.DB) *repositories {
	users := store.NewUserStore(db)
	return &repositories{
		users:         users,
		articles:      store.NewArticleStore(db),
		sections:      store.NewSectionStore(db),
		people:        users,
		notifications: store.NewNotificationStore(db),
		close:         db.Close,
	}
}

// seedMemory creates the development admin and default sections.
func seedMemory(ctx context.Context, users *memory.UserStore, sections *memory.SectionStore) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(database.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}
	if _, err := users.Create(ctx, &models.User{
		Email:        database.DefaultAdminEmail,
		PasswordHash: string(hash),
		DisplayName:  "Admin",
		Role:         models.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	for _, sec := range database.DefaultSections() {
		if _, err := sections.Create(ctx, &sec); err != nil {
			return fmt.Errorf("seed section %s: %w", sec.Slug, err)
		}
	}
	slog.Info("development data seeded", "admin_email", database.DefaultAdminEmail)
	return nil
}
