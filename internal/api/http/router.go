package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-admin/internal/api/http/handlers"
	"github.com/spec-kit/agency-admin/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Session       *handlers.SessionHandler
	Impersonation *handlers.ImpersonationHandler
	Admin         *handlers.AdminHandler
	Guard         *auth.Guard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Session.Login)
	authGroup.Post("/logout", cfg.Session.Logout)

	// Page-routing variant: resolves the session and redirects to the
	// requested section or the effective role's portal landing path.
	app.Get("/portal", cfg.Guard.Page())
	app.Get("/portal/*", cfg.Guard.Page())

	// API variant: admin surface behind the request gate. The stop route
	// authorizes against the actual highest role so a super-admin acting
	// under an assumed lower role can still end the impersonation.
	admin := app.Group("/admin")
	admin.Post("/impersonation/start", cfg.Guard.RequireAccess(), cfg.Impersonation.Start)
	admin.Post("/impersonation/stop", cfg.Guard.RequireActualAccess(), cfg.Impersonation.Stop)
	admin.Get("/principals", cfg.Guard.RequireAccess(), cfg.Admin.ListPrincipals)
	admin.Get("/agencies", cfg.Guard.RequireAccess(), cfg.Admin.ListAgencies)
	admin.Get("/audit", cfg.Guard.RequireAccess(), cfg.Admin.RecentAudit)
}
