package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kam-ticket/helpdesk-service/internal/api/http/handlers"
	"github.com/kam-ticket/helpdesk-service/internal/auth"
	"github.com/kam-ticket/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	UploadsDir     string
	UploadsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	if cfg.UploadsDir != "" {
		app.Static("/"+cfg.UploadsPath, cfg.UploadsDir)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/recent", cfg.Tickets.RecentTickets)
	tickets.Get("/unresolved", cfg.AuthMiddleware.Handle, cfg.Tickets.UnresolvedTickets)

	reports := tickets.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/counts", cfg.Reports.Counts)
	reports.Get("/monthly-resolved", cfg.Reports.MonthlyResolved)
	reports.Get("/department-breakdown", cfg.Reports.DepartmentBreakdown)
	reports.Get("/agent-performance", cfg.Reports.AgentPerformance)
	reports.Get("/time-distribution", cfg.Reports.TimeDistribution)

	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.DeleteTicket)
	tickets.Put("/:id/status", cfg.AuthMiddleware.Handle, cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/resolve", cfg.AuthMiddleware.Handle, cfg.Tickets.ResolveTicket)
	tickets.Put("/:id/pending", cfg.AuthMiddleware.Handle, cfg.Tickets.PendingTicket)
	tickets.Put("/:id/assign", cfg.AuthMiddleware.Handle, cfg.Tickets.AssignTicket)
	tickets.Put("/:id/reassign", cfg.AuthMiddleware.Handle, cfg.Tickets.ReassignTicket)

	comments := app.Group("/comments")
	comments.Post("/", cfg.Comments.AddComment)
	comments.Get("/:ticket_id", cfg.Comments.ListComments)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", cfg.Users.ListUsers)
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/email/:email", cfg.Users.GetUserByEmail)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)
	users.Put("/:id/password", cfg.Users.ChangePassword)
}
