package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/api/http/handlers"
	"github.com/spec-kit/support-copilot/internal/auth"
	"github.com/spec-kit/support-copilot/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Analysis       *handlers.AnalysisHandler
	Issues         *handlers.IssuesHandler
	Customers      *handlers.CustomersHandler
	Alerts         *handlers.AlertsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.MetricsSnapshot)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireRole())

	api.Post("/issues/analyze", cfg.Analysis.AnalyzeIssue)
	api.Get("/issues", cfg.Issues.ListIssues)
	api.Get("/issues/:id", cfg.Issues.GetIssue)
	api.Put("/issues/:id/status", cfg.Issues.UpdateStatus)
	api.Get("/issues/:id/analysis", cfg.Analysis.GetAnalysis)
	api.Get("/issues/:id/similar", cfg.Analysis.SimilarIssues)

	api.Post("/customers", cfg.Customers.CreateCustomer)
	api.Get("/customers", cfg.Customers.ListCustomers)
	api.Get("/customers/:id", cfg.Customers.GetCustomer)
	api.Get("/customers/:id/history", cfg.Analysis.CustomerHistory)

	api.Get("/alerts", cfg.Alerts.ListActive)
	api.Post("/alerts/:id/acknowledge", cfg.Alerts.Acknowledge)

	api.Post("/auth/register", auth.RequireRole(domain.RoleAdmin), cfg.Auth.Register)

	admin := api.Group("/analytics", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard", cfg.Analytics.Dashboard)
	admin.Get("/risk-report", cfg.Analytics.RiskReport)
}
