package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"  // context for the user lookup
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"     // lookup timeout

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/repository"
	"github.com/akhmetov/bookstore-api/internal/utils"
)

// UserResolver is the narrow slice of the user repository the gate
// needs: resolving a token's email claim to a stored user.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token, resolves its email claim to a user record, and injects the
// full user into the request context under the "user" key.  The
// provided secret must match the one used when issuing tokens.  All
// rejections happen before any business logic runs: a request with a
// missing or malformed token never reaches a handler, and the only
// datastore access is the user lookup after the signature has already
// been verified.
func JWTAuth(secret string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			email, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByEmail(ctx, email)
			if err != nil {
				// A well-signed token for a user that no longer exists is
				// still an authentication failure, not a server error.
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "user not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
			}

			// Downstream handlers read the resolved user via c.Get("user").
			c.Set("user", u)
			return next(c)
		}
	}
}
