package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingdesk/internal/domain/repository"
	"bookingdesk/internal/infrastructure/config"
	"bookingdesk/internal/infrastructure/oauth"
	"bookingdesk/internal/infrastructure/persistence"
	"bookingdesk/internal/infrastructure/router"
	"bookingdesk/internal/infrastructure/security"
	"bookingdesk/internal/interface/gmail"
	"bookingdesk/internal/interface/httpapi"
	mongoRepo "bookingdesk/internal/interface/repository"
	"bookingdesk/internal/usecase"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
	"bookingdesk/templates"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Booking Desk", "version", cfg.AppVersion)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up repositories
	userRepo := mongoRepo.NewMongoUserRepository(db)
	supplierRepo := mongoRepo.NewMongoSupplierRepository(db)
	bookingRepo := mongoRepo.NewMongoBookingRepository(db)
	modificationRepo := mongoRepo.NewMongoModificationRepository(db)
	auditRepo := mongoRepo.NewMongoAuditRepository(db)
	if err := mongoRepo.EnsureIndexes(ctx, userRepo, supplierRepo, bookingRepo, modificationRepo, auditRepo); err != nil {
		log.Fatal("Failed to create indexes", "error", err)
	}

	// Airline directory is optional
	var airlineRepo repository.AirlineRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepo = mongoRepo.NewGormAirlineRepository(gormDB)
	} else {
		log.Info("POSTGRES_DSN not set, airline directory disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.MetricsNamespace, registry)

	// Notifications go through Gmail when credentials exist
	var sender repository.NotificationSender = gmail.NewLogSender(log)
	if cfg.GmailEnabled() {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, "", log)
		gmailSender, err := gmail.NewGmailSender(ctx, gmailOAuth.GetTokenSource(ctx), log)
		if err != nil {
			log.Fatal("Failed to create Gmail sender", "error", err)
		}
		sender = gmailSender
	}
	templateRouter := router.NewTemplateRouter(log)
	templateRouter.Register(templates.NewVerificationNoticeHandler(log))
	templateRouter.Register(templates.NewStatusChangeHandler())
	dispatcher := usecase.NewNotificationDispatcher(templateRouter, sender, cfg.NotificationSender,
		cfg.NotificationRecipients, cfg.NotificationTimeout, log, m)

	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		log.Fatal("Failed to create token issuer", "error", err)
	}

	// Set up usecases
	audit := usecase.NewAuditTrail(auditRepo, log, m)
	identity := usecase.NewIdentity(userRepo, supplierRepo, security.BcryptHasher{}, tokens, audit, log)
	lifecycle := usecase.NewBookingLifecycle(bookingRepo, supplierRepo, audit, dispatcher, log, m,
		usecase.WithStrictTransitions(cfg.StrictTransitions))
	ledger := usecase.NewModificationLedger(modificationRepo, lifecycle, audit, log, m)
	reporting := usecase.NewReporting(bookingRepo, supplierRepo, userRepo, airlineRepo, log)

	handler := httpapi.NewRouter(httpapi.Dependencies{
		Handlers: &httpapi.Handlers{
			Identity:      identity,
			Bookings:      lifecycle,
			Modifications: ledger,
			Reporting:     reporting,
			Audit:         audit,
			Logger:        log,
			Metrics:       m,
		},
		Tokens:       tokens,
		Metrics:      m,
		LoginLimiter: httpapi.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginRateBurst).TrustProxies(cfg.TrustedProxies...),
		CORS:         httpapi.CORSOptions{AllowedOrigins: cfg.CORSOrigins},
		Extra: map[string]http.Handler{
			"/metrics": promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
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

	log.Info("Booking Desk stopped")
}
