package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/rentline-backend/internal/handlers"
	"github.com/yungbote/rentline-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware       *middleware.AuthMiddleware
	RentalRequestHandler *handlers.RentalRequestHandler
	ContractHandler      *handlers.ContractHandler
	SSEHandler           *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("rentline-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)

	api := protected.Group("/api")

	// Rental requests
	api.GET("/rental-requests", cfg.RentalRequestHandler.List)
	api.GET("/rental-requests/:id", cfg.RentalRequestHandler.GetByID)
	api.POST("/rental-requests", cfg.RentalRequestHandler.Create)
	api.PUT("/rental-requests/:id/status", cfg.RentalRequestHandler.Transition)

	// Contracts
	api.GET("/contracts", cfg.ContractHandler.List)
	api.GET("/contracts/:id", cfg.ContractHandler.GetByID)
	api.POST("/contracts", cfg.ContractHandler.Create)
	api.PUT("/contracts/:id", cfg.ContractHandler.Update)
	api.POST("/contracts/:id/proposed-end-date", cfg.ContractHandler.ProposeEndDate)
	api.GET("/contracts/:id/agreement", cfg.ContractHandler.Agreement)
	api.POST("/contracts/:id/sign", cfg.ContractHandler.Sign)

	return router
}
