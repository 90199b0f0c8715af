package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/middleware"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/notify"
	"campus-availability-server/internal/realtime"
	"campus-availability-server/internal/routes"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/telemetry"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "campus-server",
	Short: "Faculty availability and appointment API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		return serve(cfg, db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the faculty directory and the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		return seed(cfg, db)
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email> <password>",
	Short: "Set a new password for an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := store.New(db).ResetPassword(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("reset password: %w", err)
		}
		fmt.Printf("Password updated for %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, resetPasswordCmd)
}

// bootstrap loads configuration and opens a migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, db, nil
}

func seed(cfg *config.Config, db *gorm.DB) error {
	n, err := models.SeedFaculties(db, cfg.Seed.FacultyPassword)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("seeded %d faculty members", n)
	}
	return models.SeedAdmin(db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
}

func newMailer(cfg *config.Config) notify.Mailer {
	if cfg.Mailer.Transport == "sendgrid" {
		return notify.NewSendGridMailer(cfg.Mailer.SendGridAPIKey, cfg.AppName, cfg.Mailer.DefaultFrom)
	}
	return notify.NewConsoleMailer(log.New(os.Stdout, "mail: ", log.LstdFlags), cfg.Mailer.DefaultFrom)
}

func serve(cfg *config.Config, db *gorm.DB) error {
	if err := seed(cfg, db); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	shutdownTelemetry := telemetry.Setup("campus-availability-server", cfg.Telemetry)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	defer limiter.Close()
	notifier := notify.New(newMailer(cfg), cfg.AppName)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Dependencies{
		Store:    store.New(db),
		Hub:      realtime.New(),
		Notifier: notifier,
		Limiter:  limiter,
	}, cfg)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     otelhttp.NewHandler(router, "campus-availability-server"),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	notifier.Wait()
	return nil
}
