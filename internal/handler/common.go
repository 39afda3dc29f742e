package handler // handler defines http handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/queue"
)

// Response messages shared across endpoints.  Kept together so the
// wording stays consistent; every error response is the same envelope
// {"message": string}.
const (
	msgEmailNotProvided    = "Email not provided"
	msgPasswordNotProvided = "Password not provided"
	msgInvalidEmail        = "Invalid email"
	msgIncorrectPassword   = "Incorrect password"
	msgEmailRegistered     = "Email already registered"
	msgBookNotFound        = "Book not found"
	msgBookNotDeleted      = "Book not deleted"
	msgAccessDenied        = "Access denied"
	msgDatabaseError       = "Database error"
)

// dbTimeout bounds every datastore call made from a handler.
const dbTimeout = 5 * time.Second

// AuditPublisher pushes audit events to the message broker.  A nil
// publisher disables auditing; handlers never fail a request over it.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

// errJSON writes the uniform error envelope.
func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// currentUser extracts the authenticated user stored in context by the
// JWTAuth middleware.
func currentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}

// bookID validates the :id path parameter before it is ever used in a
// lookup.  A malformed identifier is a client error, not a miss.
func bookID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errJSON(c, http.StatusBadRequest, fmt.Sprintf("Request id: %s is invalid", id))
	}
	return id, nil
}

// canAccess implements the single ownership rule of the system: admins
// may act on any book, everyone else only on books they created.
func canAccess(u model.User, b model.Book) bool {
	if u.IsAdmin() {
		return true
	}
	return b.OwnerID == u.ID
}
