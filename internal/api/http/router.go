package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Departments    *handlers.DepartmentsHandler
	Security       *handlers.SecurityHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
	RequireToken   bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	app.Get("/home", handlers.Home)

	security := app.Group("/security")
	security.Post("/Register", cfg.Security.Register)
	security.Post("/Login", cfg.Security.Login)

	var readGuard, writeGuard []fiber.Handler
	if cfg.RequireToken && cfg.AuthMiddleware != nil {
		readGuard = []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}
		writeGuard = []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(string(domain.RoleAdmin))}
	}

	departments := app.Group("/departments")
	departments.Get("/", chain(readGuard, cfg.Departments.List)...)
	departments.Get("/GetById", chain(readGuard, cfg.Departments.GetByID)...)
	departments.Post("/", chain(writeGuard, cfg.Departments.Create)...)
	departments.Put("/", chain(writeGuard, cfg.Departments.Update)...)
	departments.Delete("/", chain(writeGuard, cfg.Departments.Delete)...)
}

func chain(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, guards...), handler)
}
