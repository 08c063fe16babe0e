package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"patientrecords/internal/config"
	"patientrecords/internal/handlers"
	"patientrecords/internal/jobs"
	"patientrecords/internal/jobs/background"
	"patientrecords/internal/middleware"
	"patientrecords/internal/module"
	"patientrecords/internal/repositories"
	"patientrecords/internal/services"
	"patientrecords/internal/settings"
	"patientrecords/internal/storage"
	"patientrecords/pkg/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "patient-records",
		Short:         "Patient records module server",
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(purgePatientCmd())
	rootCmd.AddCommand(auditCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and installs the global logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, log.Logger, err
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("module", module.ID).Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)
	log.Logger = logger

	return cfg, logger, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.ClosePool(pool)

	rdb := settings.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()
	settingsStore := settings.NewRedisStore(rdb)

	// Export archiving: asynq queue in front of the MinIO archive.
	var (
		archive storage.ExportArchive
		queue   services.ExportArchiveQueue
	)
	if cfg.ArchiveEnabled() {
		archive, err = storage.NewMinioArchive(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.ExportBucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize export archive")
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.ExportBucket).Msg("export bucket unavailable")
		}

		redisOpt := asynq.RedisClientOpt{
			Addr:     settings.ParseAddr(cfg.RedisAddr),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		client := asynq.NewClient(redisOpt)
		defer client.Close()
		queue = jobs.NewExportArchiveQueue(client)

		worker := asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: cfg.ArchiveConcurrency,
			LogLevel:    asynq.WarnLevel,
		})
		mux := asynq.NewServeMux()
		jobs.NewExportArchiver(archive).Register(mux)
		if err := worker.Start(mux); err != nil {
			logger.Fatal().Err(err).Msg("failed to start archive worker")
		}
		defer worker.Shutdown()
		logger.Info().Int("concurrency", cfg.ArchiveConcurrency).Msg("export archive worker started")
	}

	scheduler, err := background.NewJobScheduler(archive, cfg.ExportRetention)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error().Err(err).Msg("job scheduler shutdown failed")
		}
	}()

	authCfg, stopAuth, err := authConfig(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure session auth")
	}
	defer stopAuth()

	// Repositories and services
	patientRepo := repositories.NewPatientRecordRepository(pool)
	treatmentRepo := repositories.NewTreatmentRepository(pool)

	patientSvc := services.NewPatientRecordService(patientRepo, settingsStore, queue)
	treatmentSvc := services.NewTreatmentService(treatmentRepo, patientRepo, settingsStore, queue)
	dashboardSvc := services.NewDashboardService(patientRepo, treatmentRepo)
	settingsSvc := services.NewSettingsService(settingsStore)

	patientHandlers := handlers.NewPatientRecordHandlers(patientSvc, treatmentSvc, settingsSvc)
	treatmentHandlers := handlers.NewTreatmentHandlers(treatmentSvc, settingsSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, rdb)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.Recovery(logger))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set("request_id", id)
		},
	}))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.ModuleVersion(module.ID, module.Version))

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/manifest", handlers.Manifest)

	app := e.Group("")
	app.Use(middleware.Authenticate(authCfg))
	app.Use(middleware.NewAuditMiddleware(logger).AuditRequest())

	app.GET("/", dashboardHandlers.Dashboard(module.NavDashboard))
	app.GET("/records", dashboardHandlers.Dashboard(module.NavRecords))

	app.GET("/patient_records", patientHandlers.ListPatientRecords)
	app.GET("/patients", patientHandlers.ListPatientRecords)
	app.GET("/patient_records/add", patientHandlers.AddForm)
	app.POST("/patient_records/add", patientHandlers.CreatePatientRecord)
	app.GET("/patient_records/:id/edit", patientHandlers.EditForm)
	app.POST("/patient_records/:id/edit", patientHandlers.UpdatePatientRecord)
	app.POST("/patient_records/:id/delete", patientHandlers.DeletePatientRecord)
	app.POST("/patient_records/:id/toggle", patientHandlers.TogglePatientRecord)
	app.POST("/patient_records/bulk", patientHandlers.BulkAction)

	app.GET("/treatments", treatmentHandlers.ListTreatments)
	app.GET("/treatments/add", treatmentHandlers.AddForm)
	app.POST("/treatments/add", treatmentHandlers.CreateTreatment)
	app.GET("/treatments/:id/edit", treatmentHandlers.EditForm)
	app.POST("/treatments/:id/edit", treatmentHandlers.UpdateTreatment)
	app.POST("/treatments/:id/delete", treatmentHandlers.DeleteTreatment)
	app.POST("/treatments/bulk", treatmentHandlers.BulkAction)

	settingsGroup := app.Group("/settings", middleware.RequirePermission(module.PermManageSettings))
	settingsGroup.GET("", settingsHandlers.GetSettings)
	settingsGroup.POST("", settingsHandlers.UpdateSettings)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("version", module.Version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// authConfig verifies tokens against the JWKS endpoint when one is
// configured, otherwise with the shared secret. The returned func stops
// the JWKS refresh goroutine.
func authConfig(cfg *config.Config, logger zerolog.Logger) (middleware.AuthConfig, func(), error) {
	authCfg := middleware.AuthConfig{
		CookieName: cfg.SessionCookie,
		LoginURL:   cfg.LoginURL,
	}

	if cfg.AuthJWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.AuthJWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn().Err(err).Msg("jwks refresh failed")
			},
		})
		if err != nil {
			return authCfg, func() {}, fmt.Errorf("load jwks: %w", err)
		}
		authCfg.KeyFunc = jwks.Keyfunc
		return authCfg, jwks.EndBackground, nil
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = random.String(32)
		logger.Warn().Msg("JWT_SECRET not set, using a generated development secret")
	}
	authCfg.SigningKey = []byte(secret)
	return authCfg, func() {}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer database.ClosePool(pool)

			count, err := database.Migrate(ctx, pool)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
}

func purgePatientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge-patient",
		Short: "Permanently delete a patient record and its treatments",
		RunE: func(cmd *cobra.Command, args []string) error {
			hubID, err := uuidFlag(cmd, "hub")
			if err != nil {
				return err
			}
			id, err := uuidFlag(cmd, "id")
			if err != nil {
				return err
			}

			cfg, _, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer database.ClosePool(pool)

			svc := services.NewPatientRecordService(repositories.NewPatientRecordRepository(pool), nil, nil)
			if err := svc.Purge(ctx, hubID, id); err != nil {
				return fmt.Errorf("purge %s: %w", id, err)
			}

			fmt.Printf("Patient record %s purged.\n", id)
			return nil
		},
	}
	cmd.Flags().String("hub", "", "Hub id (uuid)")
	cmd.Flags().String("id", "", "Patient record id (uuid)")
	return cmd
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List every row of a hub, soft-deleted ones included",
		RunE: func(cmd *cobra.Command, args []string) error {
			hubID, err := uuidFlag(cmd, "hub")
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("kind")
			if kind != "" && kind != "patient_records" && kind != "treatments" {
				return fmt.Errorf("--kind must be patient_records or treatments")
			}

			cfg, _, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer database.ClosePool(pool)

			if kind == "" || kind == "patient_records" {
				svc := services.NewPatientRecordService(repositories.NewPatientRecordRepository(pool), nil, nil)
				records, err := svc.ListIncludingDeleted(ctx, hubID)
				if err != nil {
					return err
				}
				fmt.Printf("%-36s %-30s %-7s %-8s %s\n", "ID", "PATIENT NAME", "ACTIVE", "DELETED", "CREATED AT")
				for _, r := range records {
					fmt.Printf("%-36s %-30.30s %-7t %-8t %s\n", r.ID, r.PatientName, r.IsActive, r.IsDeleted, r.CreatedAt.Format(time.RFC3339))
				}
			}

			if kind == "" || kind == "treatments" {
				patientRepo := repositories.NewPatientRecordRepository(pool)
				svc := services.NewTreatmentService(repositories.NewTreatmentRepository(pool), patientRepo, nil, nil)
				treatments, err := svc.ListIncludingDeleted(ctx, hubID)
				if err != nil {
					return err
				}
				if kind == "" {
					fmt.Println()
				}
				fmt.Printf("%-36s %-36s %-30s %-8s %s\n", "ID", "PATIENT ID", "DESCRIPTION", "DELETED", "CREATED AT")
				for _, t := range treatments {
					fmt.Printf("%-36s %-36s %-30.30s %-8t %s\n", t.ID, t.PatientID, t.Description, t.IsDeleted, t.CreatedAt.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
	cmd.Flags().String("hub", "", "Hub id (uuid)")
	cmd.Flags().String("kind", "", "patient_records or treatments (default both)")
	return cmd
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", name, err)
	}
	return id, nil
}
