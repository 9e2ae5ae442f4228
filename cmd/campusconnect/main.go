// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/campusconnect-go/internal/config"
	"github.com/olegiv/campusconnect-go/internal/handler"
	"github.com/olegiv/campusconnect-go/internal/handler/api"
	"github.com/olegiv/campusconnect-go/internal/middleware"
	"github.com/olegiv/campusconnect-go/internal/service"
	"github.com/olegiv/campusconnect-go/internal/session"
	"github.com/olegiv/campusconnect-go/internal/store"
	"github.com/olegiv/campusconnect-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "CampusConnect - campus event listings\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ADMIN_PASSWORD    Admin login password (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ADMIN_USER        Admin login username (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_PATH           SQLite database path (default: ./data/campusconnect.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_UPLOADS_DIR       Poster upload directory (default: ./static/uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DO_SEED           Seed the test student account (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("campusconnect %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	posters := service.NewPosterService(cfg.UploadsDir)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	pageHandler, err := handler.NewPageHandler(sessionManager, templatesFS)
	if err != nil {
		return fmt.Errorf("initializing page handler: %w", err)
	}
	apiHandler := api.NewHandler(db, sessionManager, posters, cfg)
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Use(sessionManager.LoadAndSave)

	// Pages
	r.Get("/", pageHandler.Home)
	r.Get("/login", pageHandler.Login)
	r.Get("/admin", pageHandler.AdminLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent(sessionManager))
		r.Get(handler.RouteUserDashboard, pageHandler.UserDashboard)
		r.Get("/bookmarks", pageHandler.Bookmarks)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessionManager))
		r.Get(handler.RouteAdminDashboard, pageHandler.AdminDashboard)
	})

	// Event API
	r.Route("/api/events", func(r chi.Router) {
		r.Get("/", apiHandler.ListEvents)
		r.Post("/", apiHandler.CreateEvent)
		r.Put("/{id}", apiHandler.UpdateEvent)
		r.Delete("/{id}", apiHandler.DeleteEvent)
	})

	// Auth API
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", apiHandler.Signup)
		r.Post("/login", apiHandler.Login)
		r.Post("/admin-login", apiHandler.AdminLogin)
		r.Post("/logout", apiHandler.Logout)
		r.Get("/check", apiHandler.CheckAuth)
	})

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Embedded static assets: cache for 1 year (31536000 seconds)
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Uploaded posters from the uploads directory: cache for 1 week (604800 seconds)
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix(service.PosterURLPrefix, http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle(service.PosterURLPrefix+"*", uploadsHandler)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for poster uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
