package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connect4change/platform/internal/api/http/handlers"
	"github.com/connect4change/platform/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	Projects       *handlers.ProjectsHandler
	Contributions  *handlers.ContributionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	api := app.Group("/api")

	// public reads
	api.Get("/issues", cfg.Issues.ListOpen)
	api.Get("/issues/nearby", cfg.Issues.Nearby)
	api.Get("/projects", cfg.Projects.List)
	api.Get("/projects/organization/:id", cfg.Projects.ListByOrganization)
	api.Get("/projects/:id", cfg.Projects.Get)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())

	protected.Get("/users/me", cfg.Users.Me)
	protected.Get("/users/:id", cfg.Users.GetProfile)
	protected.Patch("/users/:id", cfg.Users.UpdateProfile)

	protected.Post("/issues", cfg.Issues.Create)
	protected.Get("/issues/mine", cfg.Issues.ListMine)
	protected.Post("/issues/:id/review", cfg.Issues.Review)

	protected.Post("/projects", cfg.Projects.Create)
	protected.Post("/projects/from-issue/:issueId", cfg.Projects.CreateFromIssue)
	protected.Post("/projects/:id/comments", cfg.Projects.AddComment)
	protected.Post("/projects/:id/status", cfg.Projects.Transition)
	protected.Post("/projects/:id/join", cfg.Projects.Join)
	protected.Post("/projects/:id/events", cfg.Projects.ScheduleEvent)

	protected.Post("/contributions", cfg.Contributions.Record)
	protected.Get("/contributions/mine", cfg.Contributions.ListMine)
}
