package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/config"
	"github.com/noah-isme/saraban-go-api/internal/database"
	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/handler"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
	"github.com/noah-isme/saraban-go-api/internal/router"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/storage"
	cloud "github.com/noah-isme/saraban-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.AppEnv == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	readiness := []handler.ReadinessCheck{{Name: "database", Check: database.PingSQL(db)}}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
		redisClient, err = database.ConnectRedis(connectCtx, cfg.RedisURL)
		cancelConnect()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		readiness = append(readiness, handler.ReadinessCheck{Name: "redis", Check: database.PingRedis(redisClient)})
	} else {
		logger.Warn().Msg("redis url not set; dashboard cache and cross-node notifications disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		readiness = append(readiness, handler.ReadinessCheck{Name: "nats", Check: natsConn.FlushWithContext})
	}

	localStorage, err := storage.NewLocalStorage(cfg.StoragePublicDir, cfg.StoragePublicURL, logger)
	if err != nil {
		log.Fatalf("failed to prepare local storage: %v", err)
	}

	backends := map[string]service.FileStorage{service.BackendLocal: localStorage}
	if cfg.CloudinaryEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		backends[service.BackendCloudinary] = uploader
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dailyLogRepo := repository.NewDailyLogRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	uploadService := service.NewUploadService(backends, cfg.StorageDefaultBackend, uploadRepo, cfg.UploadMaxBytes, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	authService := service.NewAuthService(userRepo, auditService, notificationService, validate, service.AuthConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	}, logger)
	distributionService := service.NewDistributionService(documentRepo, recipientRepo, userRepo, auditService, uploadService, notificationService, validate, logger)

	orderService := service.NewOrderService(repository.NewOrderRepository(db), auditService, uploadService, validate, logger)
	memoService := service.NewMemorandumService(repository.NewMemorandumRepository(db), auditService, uploadService, validate, logger)
	letterService := service.NewLetterService(repository.NewLetterRepository(db), auditService, uploadService, validate, logger)
	incomingService := service.NewIncomingLetterService(repository.NewIncomingLetterRepository(db), auditService, uploadService, validate, logger)

	dashboardService := service.NewDashboardService(documentRepo, recipientRepo, service.DashboardCounters{
		Orders:          orderService,
		Memoranda:       memoService,
		Letters:         letterService,
		IncomingLetters: incomingService,
	}, auditService, redisClient, cfg.DashboardCacheTTL, logger)
	dailyLogService := service.NewDailyLogService(dailyLogRepo, validate)
	exportService := service.NewExportService(auditService, distributionService, map[models.RefKind]service.RegistryTabler{
		models.RefKindOrder:          orderService,
		models.RefKindMemorandum:     memoService,
		models.RefKindLetter:         letterService,
		models.RefKindIncomingLetter: incomingService,
	}, logger)

	bootstrapAdmin(authService, cfg, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes) + 1<<20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           handler.NewAuthHandler(authService, logger),
		UserHandler:           handler.NewUserHandler(authService, logger),
		DocumentHandler:       handler.NewDocumentHandler(distributionService, exportService, logger),
		RecipientHandler:      handler.NewRecipientHandler(distributionService, logger),
		AuditHandler:          handler.NewAuditHandler(auditService, exportService, logger),
		OrderHandler:          handler.NewOrderHandler(orderService, exportService, logger),
		MemorandumHandler:     handler.NewMemorandumHandler(memoService, exportService, logger),
		LetterHandler:         handler.NewLetterHandler(letterService, exportService, logger),
		IncomingLetterHandler: handler.NewIncomingLetterHandler(incomingService, exportService, logger),
		DailyLogHandler:       handler.NewDailyLogHandler(dailyLogService, logger),
		DashboardHandler:      handler.NewDashboardHandler(dashboardService, logger),
		UploadHandler:         handler.NewUploadHandler(uploadService, logger),
		NotificationHandler:   handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
		LoginLimiter:          middleware.RateLimit("login", 10, time.Minute),
		ReadinessChecks:       readiness,
		UploadsDir:            localStorage.Root(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationService.Start(ctx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancel)
}

// bootstrapAdmin creates the first administrator from configuration on an empty installation.
func bootstrapAdmin(auth service.AuthService, cfg config.Config, logger zerolog.Logger) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}

	name := cfg.BootstrapName
	if name == "" {
		name = "Administrator"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := auth.Bootstrap(ctx, dto.BootstrapRequest{
		Name:     name,
		Email:    cfg.BootstrapEmail,
		Password: cfg.BootstrapPassword,
	})
	switch {
	case errors.Is(err, service.ErrAlreadyInitialized):
		return
	case err != nil:
		logger.Error().Err(err).Msg("failed to bootstrap administrator")
	default:
		logger.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("bootstrap administrator created")
	}
}

func waitForShutdown(app *fiber.App, stopWorkers context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
