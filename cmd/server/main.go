package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"asistencia-service/internal/domain/repository"
	"asistencia-service/internal/infrastructure/config"
	"asistencia-service/internal/infrastructure/oauth"
	"asistencia-service/internal/infrastructure/persistence"
	"asistencia-service/internal/infrastructure/router"
	"asistencia-service/internal/interface/gmail"
	"asistencia-service/internal/interface/handler"
	repo "asistencia-service/internal/interface/repository"
	"asistencia-service/internal/usecase"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
	"asistencia-service/pkg/qrcode"
	"asistencia-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Asistencia Service", "version", cfg.AppVersion)

	if err := cfg.Validate(); err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			log.Fatal("Missing required configuration", "variables", missing.Variables)
		}
		log.Fatal("Invalid configuration", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock, err := utils.NewReportingClock(cfg.ReportingTimezone)
	if err != nil {
		log.Fatal("Invalid reporting timezone", "timezone", cfg.ReportingTimezone, "error", err)
	}

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	attendeeRepository, err := repo.NewMongoAttendeeRepository(ctx, db)
	if err != nil {
		log.Fatal("Failed to prepare attendee collection", "error", err)
	}

	// Delivery ledger is optional
	var deliveryRepository repository.DeliveryRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if err := repo.Migrate(gormDB); err != nil {
			log.Fatal("Failed to migrate delivery ledger", "error", err)
		}
		deliveryRepository = repo.NewGormDeliveryRepository(gormDB)
		log.Info("Delivery ledger enabled")
	}

	// Object storage, only for the url channel
	var blobRepository repository.BlobRepository
	if cfg.QRDelivery == config.QRPublicURL {
		blobRepository, err = repo.NewS3BlobRepository(ctx, repo.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, log)
		if err != nil {
			log.Fatal("Failed to create S3 client", "error", err)
		}
		if err := blobRepository.EnsureContainer(ctx); err != nil {
			log.Fatal("Failed to prepare bucket", "bucket", cfg.S3Bucket, "error", err)
		}
	}

	mailRepository, err := newMailer(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create mail sender", "provider", cfg.EmailProvider, "error", err)
	}

	channel, err := usecase.NewQRChannel(cfg.QRDelivery, blobRepository)
	if err != nil {
		log.Fatal("Failed to create QR channel", "channel", cfg.QRDelivery, "error", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("asistencia", registry)

	// Use cases
	registrationService := usecase.NewRegistrationService(attendeeRepository, qrcode.NewEncoder(cfg.QRSize), blobRepository, clock, m, log)
	ticketService, err := usecase.NewTicketService(mailRepository, channel, deliveryRepository, usecase.TicketOptions{
		From:       cfg.EmailFrom,
		EventName:  cfg.EventName,
		EventVenue: cfg.EventVenue,
	}, m, log)
	if err != nil {
		log.Fatal("Failed to create ticket service", "error", err)
	}
	checkInService := usecase.NewCheckInService(attendeeRepository, clock, m, log)

	gin.SetMode(gin.ReleaseMode)
	engine := router.NewRouter(router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Gatherer:       registry,
	}, handler.NewHandler(registrationService, ticketService, checkInService, log), m, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server",
			"port", cfg.Port,
			"provider", mailRepository.Provider(),
			"qrDelivery", cfg.QRDelivery,
			"timezone", cfg.ReportingTimezone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Asistencia Service stopped")
}

func newMailer(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.MailRepository, error) {
	switch cfg.EmailProvider {
	case config.ProviderGmail:
		gmailOAuth := oauth.NewGmailOAuth(
			cfg.GmailClientID,
			cfg.GmailClientSecret,
			cfg.GmailRefreshToken,
			log,
		)
		return gmail.NewGmailSender(ctx, gmailOAuth.GetTokenSource(ctx), log)
	default:
		return repo.NewResendRepository(cfg.ResendBaseURL, cfg.ResendAPIKey, &http.Client{Timeout: 15 * time.Second}, log)
	}
}
