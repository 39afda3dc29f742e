package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/akhmetov/bookstore-api/internal/handler"
	"github.com/akhmetov/bookstore-api/internal/middleware"
	"github.com/akhmetov/bookstore-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers the user endpoints.  Register, create-admin
// and login are unauthenticated; create-admin deliberately so, since no
// promotion endpoint exists.  Refresh-token runs behind the
// authentication gate because it reissues a token for an identity that
// must already be proven.  The optional limiter middleware rate limits
// the whole group.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users middleware.UserResolver, limiter echo.MiddlewareFunc) {
	g := e.Group("/users")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/create-admin", a.CreateAdmin)
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.RefreshToken, middleware.JWTAuth(jwtSecret, users))
}

// RegisterBooks registers the book endpoints.  Every route requires a
// valid bearer token; the gate resolves the caller to a stored user
// before any handler runs.  The optional cache middleware serves
// repeated GETs from Redis, keyed per user so ownership filtering is
// preserved.
func RegisterBooks(e *echo.Echo, b *handler.BookHandler, jwtSecret string, users middleware.UserResolver, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/books",
		middleware.JWTAuth(jwtSecret, users),
		middleware.RequireRole(model.RoleAdmin, model.RoleUser),
	)
	if cache != nil {
		g.Use(cache)
	}
	g.POST("", b.Create)
	g.GET("", b.List)
	g.GET("/:id", b.Get)
	g.PATCH("/:id", b.Patch)
	g.PUT("/:id", b.Put)
	g.DELETE("/:id", b.Delete)
}
