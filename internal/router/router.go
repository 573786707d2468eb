package router

import (
	"github.com/gin-gonic/gin"

	"vendido/internal/handler"
	"vendido/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	healthH *handler.HealthHandler,
	reportH *handler.ReportHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	digest := v1.Group("/digest")
	digest.GET("/preview", reportH.PreviewDigest)
	digest.POST("/run", reportH.RunDigest)

	orders := v1.Group("/orders")
	orders.GET("/recent", reportH.ListRecentReservations)
	orders.GET("/:id/reservation", reportH.GetReservation)

	return r
}
