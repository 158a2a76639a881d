package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/iQuantC/docsight/pkg/config"
	"github.com/iQuantC/docsight/pkg/errx"
	"github.com/iQuantC/docsight/pkg/logx"
)

func main() {
	logx.Info("Starting Docsight API server...")

	cfg := config.Load()

	container := NewContainer(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	container.StartBackgroundServices(ctx)

	app := fiber.New(fiber.Config{
		AppName:               "Docsight API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthHandler)
	app.Get("/", infoHandler)

	container.DocumentHandlers.RegisterRoutes(app)
	logx.Info("Document routes registered")

	app.Use(notFoundHandler)

	startServer(app, cfg.Server.Port)
}

func healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "docsight-api",
	})
}

func infoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     "Docsight API",
		"description": "Document text extraction, visualization, and question answering",
		"endpoints": fiber.Map{
			"upload":    "POST /api/v1/documents",
			"s3_upload": "POST /api/v1/documents/s3",
			"document":  "GET /api/v1/documents/:id",
			"image":     "GET /api/v1/documents/:id/image",
			"overlay":   "GET /api/v1/documents/:id/overlay",
			"answers":   "POST /api/v1/documents/:id/answers",
			"health":    "GET /health",
		},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}

// globalErrorHandler logs the failure with request context and renders
// the standard errx JSON notice.
func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	}).Errorf("Request error: %v", err)

	return errx.FiberErrorHandler(c, err)
}

func startServer(app *fiber.App, port string) {
	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("Received signal: %v, shutting down gracefully...", sig)

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}
