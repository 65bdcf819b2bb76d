package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/semak-karangan-api/internal/config"
	"github.com/noah-isme/semak-karangan-api/internal/handler"
	"github.com/noah-isme/semak-karangan-api/internal/middleware"
	"github.com/noah-isme/semak-karangan-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SemakHandler  *handler.SemakHandler
	ResultHandler *handler.ResultHandler
	CreditHandler *handler.CreditHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.SemakHandler != nil {
		semak := api.Group("/semak", jwtMiddleware, middleware.RateLimit("semak", cfg.SemakRatePerMinute, time.Minute))
		deps.SemakHandler.Register(semak)
	}

	if deps.ResultHandler != nil {
		deps.ResultHandler.Register(api.Group("/results", jwtMiddleware))
	}

	if deps.CreditHandler != nil {
		credits := api.Group("/credits", jwtMiddleware)
		deps.CreditHandler.Register(credits)
		deps.CreditHandler.RegisterAdmin(credits.Group("/admin", middleware.RequireRole(middleware.RoleAdmin)))
	}
}
