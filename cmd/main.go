package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/rentline-backend/internal/db"
	"github.com/yungbote/rentline-backend/internal/handlers"
	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/middleware"
	"github.com/yungbote/rentline-backend/internal/observability"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/server"
	"github.com/yungbote/rentline-backend/internal/services"
	"github.com/yungbote/rentline-backend/internal/sse"
	"github.com/yungbote/rentline-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "rentline-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() { _ = otelShutdown(context.Background()) }()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	listingRepo := repos.NewListingRepo(thePG, log)
	rentalRequestRepo := repos.NewRentalRequestRepo(thePG, log)
	contractRepo := repos.NewContractRepo(thePG, log)
	contractTenantRepo := repos.NewContractTenantRepo(thePG, log)
	contractSignatureRepo := repos.NewContractSignatureRepo(thePG, log)
	proposedEndDateRepo := repos.NewProposedEndDateRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)
	var sseBus services.SSEBus
	if bus, err := services.NewRedisSSEBus(log); err != nil {
		log.Warn("Redis SSE bus unavailable, running single-instance", "error", err)
	} else {
		sseBus = bus
		if err := bus.StartForwarder(context.Background(), func(m sse.SSEMessage) {
			sseHub.Broadcast(m)
		}); err != nil {
			log.Warn("Redis SSE forwarder failed to start", "error", err)
		}
	}
	notifier := services.NewSSENotifier(log, sseHub, sseBus)

	// Services
	log.Info("Setting up Services from main...")
	rentalRequestService := services.NewRentalRequestService(thePG, log, rentalRequestRepo, listingRepo, contractRepo, contractTenantRepo, notifier)
	contractService := services.NewContractService(thePG, log, contractRepo, contractTenantRepo, contractSignatureRepo, proposedEndDateRepo, rentalRequestRepo, listingRepo, notifier)

	// Handlers
	log.Info("Setting up handlers from main...")
	rentalRequestHandler := handlers.NewRentalRequestHandler(rentalRequestService)
	contractHandler := handlers.NewContractHandler(contractService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, userRepo, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:       authMiddleware,
		RentalRequestHandler: rentalRequestHandler,
		ContractHandler:      contractHandler,
		SSEHandler:           sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
