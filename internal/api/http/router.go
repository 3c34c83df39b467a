package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)

	usersProtected := users.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	usersProtected.Get("/me", cfg.Users.Me)
	usersProtected.Post("/logout", cfg.Users.Logout)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id", auth.RequireAdmin(), cfg.Complaints.Update)
	complaints.Delete("/:id", cfg.Complaints.Delete)
}
