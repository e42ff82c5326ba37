package api

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(app *fiber.App, handler *QueryHandler) {
	// Middleware
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENVIRONMENT"),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API Versioning
	v1 := app.Group("/v1")
	// Endpoints
	v1.Post("/query", handler.HandleQuery)
	v1.Post("/agents/:agent", handler.HandleAgentDebug)
}
