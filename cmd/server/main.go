package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/config"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/database"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/scheduler"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/secure"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Payment reference encryption
	codec, err := secure.NewCodec(cfg.Admin.PaymentRefKey)
	if err != nil {
		log.Fatalf("Failed to load payment reference key: %v", err)
	}

	// Create repositories
	propertyRepo := repository.NewPropertyRepository(db)
	userRepo := repository.NewUserRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	propertyService := service.NewPropertyService(propertyRepo)
	sharesService := service.NewSharesService(propertyRepo, investmentRepo)
	recalcService := service.NewRecalculationService(sharesService, payoutRepo)
	statementService := service.NewStatementService(
		db,
		statementRepo,
		distributionRepo,
		propertyRepo,
		recalcService,
	)
	distributionService := service.NewDistributionService(
		db,
		distributionRepo,
		payoutRepo,
		statementRepo,
		propertyRepo,
		investmentRepo,
		ledgerRepo,
		auditRepo,
		recalcService,
		service.LogNotifier{},
		codec,
	)
	investmentService := service.NewInvestmentService(
		db,
		investmentRepo,
		propertyRepo,
		userRepo,
		payoutRepo,
		ledgerRepo,
		auditRepo,
	)

	// Background jobs
	sched, err := scheduler.New(propertyService, cfg.Shares.RefreshSchedule)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		Property:     propertyService,
		Statement:    statementService,
		Distribution: distributionService,
		Investment:   investmentService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
