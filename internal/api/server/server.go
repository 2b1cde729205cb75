package server

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"videomasa/internal/api/middleware"
	v1routes "videomasa/internal/api/v1/routes"
	"videomasa/web/handlers"
)

// Config represents API server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Development  bool
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	errc       chan error
}

// NewServer creates a new API server. metrics and assets are optional.
func NewServer(
	config Config,
	container *v1routes.ServiceContainer,
	metrics http.Handler,
	assets fs.FS,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if config.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))

	v1routes.RegisterRoutes(router, container)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	if assets != nil {
		static := handlers.NewStaticHandler(assets)
		router.GET("/", static.Index)
		router.GET("/static/*filepath", static.Asset)
	}

	// WriteTimeout stays zero by default: downloads and MP3 conversion can run long
	httpServer := &http.Server{
		Addr:         config.Addr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
		errc:       make(chan error, 1),
	}
}

// Start binds the listen address and serves in the background. A bind failure
// is returned directly; later serve failures arrive on Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting API server",
		zap.String("address", ln.Addr().String()),
		zap.Bool("development", s.config.Development),
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped unexpectedly", zap.Error(err))
			s.errc <- err
		}
		close(s.errc)
	}()

	return nil
}

// Err reports a fatal serve error. It is closed once the server stops.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
