package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/support-desk/internal/api/http/handlers"
	"github.com/servicedesk/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser())
	protected.Get("/dashboard", cfg.Tickets.Dashboard)

	tickets := protected.Group("/tickets")
	tickets.Post("/quote", cfg.Tickets.Quote)
	tickets.Post("/confirm", cfg.Tickets.Confirm)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/tickets", cfg.AdminTickets.List)
	admin.Get("/tickets/:id", cfg.AdminTickets.Get)
	admin.Patch("/tickets/:id/status", cfg.AdminTickets.UpdateStatus)
	admin.Post("/tickets/:id/assign", cfg.AdminTickets.Assign)
}
