package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/pustaka-activity-api/internal/config"
	"github.com/noah-isme/pustaka-activity-api/internal/handler"
	"github.com/noah-isme/pustaka-activity-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityReportHandler *handler.ActivityReportHandler
	NotificationHandler   *handler.NotificationHandler
	// ExportLimiter guards the export routes; nil disables limiting.
	ExportLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	admin := app.Group("/api/admin")

	if deps.ActivityReportHandler != nil {
		var exportMiddleware []fiber.Handler
		if deps.ExportLimiter != nil {
			exportMiddleware = append(exportMiddleware, deps.ExportLimiter)
		}
		deps.ActivityReportHandler.Register(admin.Group("/activity"), exportMiddleware...)
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(admin.Group("/notifications"))
	}
}
