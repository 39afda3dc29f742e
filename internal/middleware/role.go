package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/akhmetov/bookstore-api/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// user carries one of the specified roles.  It assumes JWTAuth has
// already stored the resolved user in the context; a request with an
// unknown or missing role is aborted with 403.  Today every protected
// route accepts both roles, so this mainly guards against rows whose
// role column holds an unexpected value.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Build a set of allowed roles for constant-time lookups.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := c.Get("user").(model.User)
			if !ok || !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied"})
			}
			return next(c)
		}
	}
}
