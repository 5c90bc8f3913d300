package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sportsbook/internal/auth"
	"sportsbook/internal/clock"
	"sportsbook/internal/config"
	"sportsbook/internal/database"
	"sportsbook/internal/events"
	"sportsbook/internal/handlers"
	"sportsbook/internal/logging"
	"sportsbook/internal/metrics"
	"sportsbook/internal/paystack"
	"sportsbook/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Ledger events go to Redis when configured
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		stream, err := events.NewStreamPublisherFromURL(ctx, cfg.Redis.URL, cfg.Redis.Stream)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, ledger events disabled", zap.Error(err))
		} else {
			defer stream.Close()
			publisher = stream
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := services.Deps{
		DB:        database.GetDB(),
		Clock:     clock.Real{},
		Publisher: publisher,
		Metrics:   metrics.New(registry),
		Logger:    logger,
	}

	// Initialize services
	adminService := services.NewAdminService(database.GetDB())
	betService := services.NewBetService(deps, cfg.App.OddsTolerance)
	walletService := services.NewWalletService(deps, cfg.App.MinWithdrawal)
	bankService := services.NewBankService(
		database.GetDB(),
		paystack.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL),
		logger,
	)

	// Initialize handlers
	routes := &handlers.Router{
		Users:        handlers.NewUserHandler(services.NewUserService(database.GetDB()), logger),
		Bets:         handlers.NewBetHandler(betService, adminService, logger),
		Wallet:       handlers.NewWalletHandler(walletService, cfg.Paystack.SecretKey, logger),
		Transactions: handlers.NewTransactionHandler(walletService, logger),
		Banks:        handlers.NewBankHandler(bankService, logger),
		Admin:        handlers.NewAdminHandler(adminService, betService, walletService, logger),
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", handlers.SignatureHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
