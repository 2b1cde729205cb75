package routes

import (
	"github.com/gin-gonic/gin"
	"videomasa/internal/api/v1/handlers"
	"videomasa/internal/api/v1/services"
)

// ServiceContainer holds all services needed by the routes
type ServiceContainer struct {
	JobService     services.JobService
	HistoryService services.HistoryService
	Lifecycle      services.Lifecycle
	HistoryLimit   int
}

// RegisterRoutes registers the job and system endpoints the UI talks to
func RegisterRoutes(router gin.IRouter, container *ServiceContainer) {
	jobHandler := handlers.NewJobHandler(container.JobService)
	router.POST("/process", jobHandler.Process)
	router.POST("/upload", jobHandler.Upload)
	router.GET("/status/:id", jobHandler.Status)
	router.POST("/merge/:id", jobHandler.Merge)
	router.POST("/retranscribe/:id", jobHandler.Retranscribe)
	router.GET("/download/:id", jobHandler.Download)
	router.GET("/download-mp3/:id", jobHandler.DownloadMP3)
	router.POST("/cleanup/:id", jobHandler.Cleanup)
	router.GET("/thumb/:id", jobHandler.Thumb)

	systemHandler := handlers.NewSystemHandler(container.Lifecycle, container.HistoryService, container.HistoryLimit)
	router.GET("/health", systemHandler.Health)
	router.GET("/history", systemHandler.History)
	router.POST("/heartbeat", systemHandler.Heartbeat)
	router.POST("/shutdown", systemHandler.Shutdown)
}
