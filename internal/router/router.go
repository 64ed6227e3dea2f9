package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/autorenta/rental-api/internal/handler"    // import the handlers that implement business logic
	"github.com/autorenta/rental-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.Health) {
	// The health endpoint is used by load balancers and monitoring systems
	// to verify that the service and its database are up.
	e.GET("/healthz", h.Check)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.  Each handler generates or exchanges
	// tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: invalidates the presented refresh token.
	g.POST("/refresh", a.Refresh)
	// Non-rotating: issues a new access token, reusing the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware; the handler accepts either a
	// bearer token (revoke all sessions) or a refresh_token body (revoke
	// one).
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  Both roles may call them.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleCustomer))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: the catalog,
// availability checks, quotes and vehicle reviews.  These routes carry no
// JWT or role middleware and are intended for guests; mw (rate limiting,
// response caching) is applied to all of them.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// Browse the catalog.
	g.GET("/categorias", p.ListCategorias)
	g.GET("/productos", p.ListProductos)
	g.GET("/productos/:id", p.GetProducto)
	g.GET("/servicios", p.ListServicios)
	g.GET("/caracteristicas", p.ListCaracteristicas)
	// Check whether a vehicle is free for a half-open date range.
	g.GET("/productos/:id/disponibilidad", p.Disponibilidad)
	// Occupied ranges for date pickers.
	g.GET("/productos/:id/calendario", p.Calendario)
	// Price a prospective rental without creating anything.
	g.POST("/cotizaciones", p.Cotizar)
	// Reviews left by past renters.
	g.GET("/productos/:id/reviews", p.ListReviews)
}

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers create and
// cancel their own reservations, manage favorites and leave reviews.
func RegisterCustomer(e *echo.Echo, r *handler.ReservationHandler, f *handler.FavoriteHandler,
	rev *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer, middleware.RoleAdmin),
	)
	g.POST("/reservas", r.Create)
	g.GET("/reservas/usuario/:usuarioId", r.ListByUser)
	g.GET("/reservas/:id", r.Get)
	// DELETE is a cancellation, not a hard delete; the 24-hour window is
	// enforced in the repository.
	g.DELETE("/reservas/:id", r.Cancel)

	g.GET("/favoritos", f.List)
	g.POST("/favoritos/:productoId", f.Add)
	g.DELETE("/favoritos/:productoId", f.Remove)

	g.POST("/reviews", rev.Create)
}

// RegisterAdmin registers the back-office endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	g.POST("/categorias", a.CreateCategoria)
	g.DELETE("/categorias/:id", a.DeleteCategoria)

	g.POST("/productos", a.CreateProducto)
	g.PUT("/productos/:id", a.UpdateProducto)
	g.DELETE("/productos/:id", a.DeleteProducto)

	g.GET("/servicios", a.ListServicios)
	g.POST("/servicios", a.CreateServicio)
	g.PUT("/servicios/:id", a.UpdateServicio)

	g.POST("/caracteristicas", a.CreateCaracteristica)
	g.PUT("/caracteristicas/:id", a.UpdateCaracteristica)
	g.DELETE("/caracteristicas/:id", a.DeleteCaracteristica)
	g.PUT("/productos/:id/caracteristicas/:caracteristicaId", a.AssignCaracteristica)
	g.DELETE("/productos/:id/caracteristicas/:caracteristicaId", a.UnassignCaracteristica)

	g.GET("/reservas", a.ListReservas)
	g.PUT("/reservas/:id/estado", a.UpdateEstado)
}
