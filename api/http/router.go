package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haoyun/jobflow/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	applications *handlers.ApplicationHandler,
	view *handlers.ViewHandler,
	settings *handlers.SettingsHandler,
	health *handlers.HealthHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Post("/password/reset", auth.RequestPasswordReset)
	a.Post("/password/reset/confirm", auth.ConfirmPasswordReset)
	a.Get("/me", authMW, auth.Me)
	a.Put("/password", authMW, auth.ChangePassword)

	// Owner-scoped application pipeline
	apps := v1.Group("/applications", authMW)
	apps.Get("/", applications.List)
	apps.Post("/", applications.Create)
	apps.Get("/stats", applications.Stats)
	apps.Get("/:id", applications.Get)
	apps.Put("/:id", applications.Update)
	apps.Delete("/:id", applications.Delete)
	apps.Put("/:id/stage", applications.AdvanceStage)

	// Read-only view mode, no auth
	v1.Get("/view/applications", view.List)

	s := v1.Group("/settings", authMW)
	s.Get("/", settings.Get)
	s.Put("/", settings.Save)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
