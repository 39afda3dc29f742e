package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel comparisons
	"fmt"      // response message formatting
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls and event timestamps

	"github.com/go-playground/validator/v10" // email grammar validation
	"github.com/labstack/echo/v4"            // Echo framework for HTTP routing

	"github.com/akhmetov/bookstore-api/internal/config"
	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/queue"
	"github.com/akhmetov/bookstore-api/internal/repository"
	"github.com/akhmetov/bookstore-api/internal/utils"
)

// validate checks email grammar at registration.  A single instance is
// safe for concurrent use.
var validate = validator.New()

// UserStore is the slice of the user repository the auth endpoints use.
// Declared here so tests can substitute an in-memory double.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler bundles dependencies for the user endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Audit AuditPublisher
}

func NewAuthHandler(cfg config.Config, users UserStore, audit AuditPublisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Audit: audit}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register handles POST /users/register and creates a regular user.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, model.RoleUser)
}

// CreateAdmin handles POST /users/create-admin.  It is identical to
// Register except the created account carries the admin role.  The
// route is deliberately unauthenticated: there is no promotion endpoint,
// so this is the only way to obtain an admin account.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	return h.register(c, model.RoleAdmin)
}

// register validates the credentials and persists a new user with the
// given role.  Field checks run before any persistence call; email
// uniqueness is enforced by the store and surfaces only after the
// insert is attempted.
func (h *AuthHandler) register(c echo.Context, role string) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return errJSON(c, http.StatusBadRequest, msgEmailNotProvided)
	}
	if req.Password == "" {
		return errJSON(c, http.StatusBadRequest, msgPasswordNotProvided)
	}
	if err := validate.Var(req.Email, "email"); err != nil {
		return errJSON(c, http.StatusBadRequest, msgInvalidEmail)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errJSON(c, http.StatusBadRequest, msgEmailRegistered)
		}
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}

	if h.Audit != nil {
		_ = h.Audit.Publish(ctx, queue.AuditEvent{
			Action:     queue.ActionUserRegistered,
			ActorID:    u.ID,
			ActorEmail: u.Email,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, u)
}

// Login handles POST /users/login: verify credentials and return a
// token.  An unknown email and a wrong password are distinct failures;
// the former is a 404, the latter a 400 with its own message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return errJSON(c, http.StatusBadRequest, msgEmailNotProvided)
	}
	if req.Password == "" {
		return errJSON(c, http.StatusBadRequest, msgPasswordNotProvided)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errJSON(c, http.StatusNotFound,
				fmt.Sprintf("User with email: %s not found", req.Email))
		}
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errJSON(c, http.StatusBadRequest, msgIncorrectPassword)
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not issue token")
	}

	return c.JSON(http.StatusOK, tokenResp{Email: u.Email, Token: token})
}

// RefreshToken handles POST /users/refresh-token.  It runs behind the
// authentication gate and reissues a token for the already-verified
// identity without re-checking credentials.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, tokenResp{Email: u.Email, Token: token})
}
