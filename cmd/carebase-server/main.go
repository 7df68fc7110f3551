package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebase/carebase/internal/config"
	"github.com/carebase/carebase/internal/domain/directory"
	"github.com/carebase/carebase/internal/domain/event"
	"github.com/carebase/carebase/internal/domain/medication"
	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/auth"
	"github.com/carebase/carebase/internal/platform/db"
	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/middleware"
	"github.com/carebase/carebase/internal/platform/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carebase-server",
		Short: "Palliative care event management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				state, applied := "pending", "-"
				if s.Applied {
					state = "applied"
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, state, applied)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	docs := store.NewPG(pool)
	pin := guard.PIN(cfg.CheckoutPIN)

	signingKey := []byte(cfg.SessionSigningKey)
	if len(signingKey) == 0 {
		// Dev only; Validate rejects an empty key in production. Sessions
		// do not survive a restart with a generated key.
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			return fmt.Errorf("generate session key: %w", err)
		}
		signingKey = []byte(hex.EncodeToString(buf))
		logger.Warn().Msg("SESSION_SIGNING_KEY not set, generated an ephemeral key")
	}

	issuer := auth.NewTokenIssuer(signingKey, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	revocation := auth.NewTokenRevocationStore()
	defer revocation.Close()
	authSvc := auth.NewService(docs, issuer, revocation, logger)

	registrySvc := registry.NewService(registry.NewStoreRepo(docs), pin)
	eventSvc := event.NewService(event.NewStoreRepo(docs), pin, logger)
	directorySvc := directory.NewService(directory.NewStoreRepo(docs))
	medicationSvc := medication.NewService(medication.NewStoreRepo(docs), logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	skipAuth := func(c echo.Context) bool {
		path := c.Request().URL.Path
		return path == "/health" || path == "/api/v1/auth/login"
	}
	if cfg.IsDev() {
		e.Use(auth.DevMiddleware())
	} else {
		e.Use(auth.Middleware(authSvc, skipAuth))
	}
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	auth.NewHandler(authSvc).RegisterRoutes(api)
	registry.NewHandler(registrySvc).RegisterRoutes(api)
	event.NewHandler(eventSvc).RegisterRoutes(api)
	directory.NewHandler(directorySvc).RegisterRoutes(api)
	medication.NewHandler(medicationSvc).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
