// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akoun-dev/africahub-sub004/internal/app/service"
	"github.com/akoun-dev/africahub-sub004/internal/transport/httpserver/handler"
	"github.com/akoun-dev/africahub-sub004/internal/transport/httpserver/middleware"
	"github.com/akoun-dev/africahub-sub004/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	resolutionSvc *service.ResolutionService,
	analyticsSvc *service.AnalyticsService,
	db *gorm.DB,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "africahub-content-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(db))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	contentHandler := handler.NewContentHandler(resolutionSvc, analyticsSvc, v, logger)
	adminHandler := handler.NewAdminHandler(resolutionSvc, analyticsSvc, v, logger)

	registerRoutes(app, contentHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	contentHandler *handler.ContentHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	// Content resolution and lifecycle
	content := v1.Group("/content")
	content.Get("/resolve", contentHandler.Resolve)
	content.Post("/", contentHandler.Create)
	content.Get("/:id", contentHandler.GetByID)
	content.Put("/:id", contentHandler.Update)
	content.Delete("/:id", contentHandler.Delete)
	content.Get("/:id/versions", contentHandler.ListVersions)
	content.Post("/:id/restore", contentHandler.Restore)
	content.Post("/:id/views", contentHandler.RecordView)

	// Admin routes
	admin := v1.Group("/admin")
	admin.Post("/cache/purge", adminHandler.PurgeCache)
	admin.Get("/analytics/top", adminHandler.TopCounters)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server, honoring ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithContext(ctx)
}
