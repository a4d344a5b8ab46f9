package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/http/handlers"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Entitlements   *handlers.EntitlementsHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Principals     *handlers.PrincipalsHandler
	Usage          *handlers.UsageHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/operators/login", cfg.Auth.OperatorLogin)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/session", cfg.Auth.Session)

	entitlements := app.Group("/entitlements", cfg.AuthMiddleware.Handle, auth.RequirePrincipal())
	entitlements.Get("/check", cfg.Entitlements.Check)
	entitlements.Get("/permissions", cfg.Entitlements.Permissions)

	subscriptions := app.Group("/subscriptions", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	subscriptions.Get("/:tenantID", cfg.Subscriptions.Get)
	subscriptions.Get("/:tenantID/renewals", cfg.Subscriptions.PendingRenewals)
	subscriptions.Post("/:tenantID/renew", cfg.Subscriptions.Renew)

	operatorOnly := subscriptions.Group("", auth.RequireOperator())
	operatorOnly.Post("/:tenantID/approve/:requestID", cfg.Subscriptions.Approve)
	operatorOnly.Post("/:tenantID/reject/:requestID", cfg.Subscriptions.Reject)
	operatorOnly.Post("/:tenantID/suspend", cfg.Subscriptions.Suspend)
	operatorOnly.Post("/:tenantID/reactivate", cfg.Subscriptions.Reactivate)

	principals := app.Group("/principals", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	principals.Post("", cfg.Principals.Create)
	principals.Get("", cfg.Principals.List)
	principals.Get("/:id", cfg.Principals.Get)
	principals.Post("/:id/grant", cfg.Principals.Grant)
	principals.Post("/:id/revoke", cfg.Principals.Revoke)
	principals.Post("/:id/role", cfg.Principals.ChangeRole)
	principals.Post("/:id/archive", cfg.Principals.Archive)

	usage := app.Group("/usage", cfg.AuthMiddleware.Handle, auth.RequirePrincipal())
	usage.Post("/:metric/increment", cfg.Usage.Increment)
	usage.Post("/:metric/decrement", cfg.Usage.Decrement)
}
