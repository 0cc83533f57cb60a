package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"syntra-backoffice/config"
	"syntra-backoffice/internal/gateway/clients"
	"syntra-backoffice/internal/gateway/handlers"
	"syntra-backoffice/internal/gateway/middleware"
	sysutils "syntra-backoffice/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	sysutils.SetSecret(cfg.Auth.JWTSecret)

	grpcClients, err := clients.NewGRPCClients(cfg.Service.ServiceURL)
	if err != nil {
		log.Fatalf("Failed to create gRPC clients: %v", err)
	}
	defer grpcClients.Close()

	rateLimit, err := middleware.RateLimit(cfg.Gateway.RateLimit)
	if err != nil {
		log.Fatalf("Error while configuring rate limiter: %v", err)
	}

	r := gin.New()
	r.Use(middleware.CORS(cfg.Gateway.CORSOrigins))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(rateLimit)

	handlers.NewBackOfficeHTTPHandler(grpcClients.BackOffice).RegisterRoutes(r, middleware.JWTAuth())

	r.GET("/health", healthCheckHandler)
	r.GET("/health/detailed", detailedHealthCheckHandler(grpcClients))

	log.Printf("Starting server on %s", cfg.Gateway.Addr)
	if err := r.Run(cfg.Gateway.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "Server is running",
		"timestamp": time.Now(),
	})
}

// detailedHealthCheckHandler asks the back-office service's gRPC health
// endpoint and reports 503 when it is not serving.
func detailedHealthCheckHandler(clients *clients.GRPCClients) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		overall, httpStatus := "healthy", http.StatusOK
		backoffice := gin.H{"status": "healthy", "message": "Service is responding"}
		if !clients.IsBackOfficeHealthy(ctx) {
			overall, httpStatus = "degraded", http.StatusServiceUnavailable
			backoffice = gin.H{"status": "unavailable", "message": "Service not serving or connection lost"}
		}

		c.JSON(httpStatus, gin.H{
			"overall_status": overall,
			"services":       gin.H{"backoffice": backoffice},
			"timestamp":      time.Now(),
		})
	}
}
