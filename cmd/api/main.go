package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pustaka-activity-api/internal/config"
	"github.com/noah-isme/pustaka-activity-api/internal/database"
	"github.com/noah-isme/pustaka-activity-api/internal/handler"
	"github.com/noah-isme/pustaka-activity-api/internal/middleware"
	"github.com/noah-isme/pustaka-activity-api/internal/models"
	"github.com/noah-isme/pustaka-activity-api/internal/observability"
	"github.com/noah-isme/pustaka-activity-api/internal/repository"
	"github.com/noah-isme/pustaka-activity-api/internal/router"
	"github.com/noah-isme/pustaka-activity-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ActivityRecord{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	activityRepo := repository.NewActivityRecordRepository(db)
	seedService := service.NewSeedService(activityRepo, cfg.ReportLocation, logger)
	if _, err := seedService.SeedActivityRecords(rootCtx); err != nil {
		log.Fatalf("failed to seed activity records: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, report snapshots and relay disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, notification relay disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	observability.RegisterMetrics()
	validate := validator.New(validator.WithRequiredStructEnabled())

	notificationService := service.NewNotificationService(redisClient, cfg.RealtimeChannel, natsConn, validate, logger)
	notificationService.Start(rootCtx)

	reportService := service.NewActivityReportService(
		activityRepo,
		redisClient,
		cfg.ReportSnapshotTTL,
		cfg.ReportLocation,
		notificationService,
		cfg.Clock(),
		logger,
	)

	reportHandler := handler.NewActivityReportHandler(reportService, validate, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		AccessLog: cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		ActivityReportHandler: reportHandler,
		NotificationHandler:   notificationHandler,
		ExportLimiter:         middleware.RateLimit("export", cfg.ExportRateLimit, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().
		Str("addr", cfg.HTTPAddress()).
		Str("database_driver", cfg.DatabaseDriver).
		Str("report_timezone", cfg.ReportTimezone).
		Msg("activity report api started")

	waitForShutdown(app, cancelRoot)
}

func waitForShutdown(app *fiber.App, cancelRoot context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
