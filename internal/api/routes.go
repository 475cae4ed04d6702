package api

import (
	"github.com/bilgisen/feedpress/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application. adminKey protects the
// ingestion trigger and source registration; empty leaves them open for the external
// scheduler.
func SetupRoutes(app *fiber.App, h *Handlers, adminKey string) {
	app.Use(recover.New())
	// cors only answers requests carrying an Origin header
	app.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		return c.Next()
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Authorization, X-Client-Info, Apikey, Content-Type, X-API-Key",
	}))
	app.Use(middleware.RequestLogger())

	// Preflight is answered by cors; any other OPTIONS request ends here
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	api := app.Group("/api/v1")

	api.Get("/health", h.HealthCheck)

	admin := middleware.AdminOnly(adminKey)
	api.Post("/ingest", admin, h.Ingest)
	api.Get("/ingest", admin, h.Ingest)
	api.Post("/sources", admin, middleware.ValidateRequest[SourceRequest](), h.AddSource)

	api.Post("/recommendations", middleware.ValidateRequest[RecommendationRequest](), h.Recommendations)

	posts := api.Group("/posts")
	{
		posts.Get("", h.ListPosts)
		posts.Get("/:slug", h.GetPost)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
