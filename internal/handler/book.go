package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/queue"
	"github.com/akhmetov/bookstore-api/internal/repository"
)

// BookStore is the slice of the book repository the handlers use.
// Declared here so tests can substitute an in-memory double.
type BookStore interface {
	Create(ctx context.Context, b *model.Book) error
	GetByID(ctx context.Context, id string) (model.Book, error)
	ListAll(ctx context.Context) ([]model.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
	UpdateFields(ctx context.Context, id string, title, author *string) error
	Replace(ctx context.Context, id, title, author string) error
	Delete(ctx context.Context, id string) error
}

// BookHandler bundles dependencies for the book endpoints.  All routes
// run behind the authentication gate, so handlers can assume a resolved
// user in the context.
type BookHandler struct {
	Books BookStore
	Audit AuditPublisher
}

func NewBookHandler(books BookStore, audit AuditPublisher) *BookHandler {
	return &BookHandler{Books: books, Audit: audit}
}

type createBookReq struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// patchBookReq uses pointers so that an absent field can be told apart
// from an empty one: only fields present in the body are merged.
type patchBookReq struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

// Create handles POST /books.  The owner is always the authenticated
// caller; an owner field in the request body is ignored by the DTO.
func (h *BookHandler) Create(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if req.Title == "" {
		return errJSON(c, http.StatusBadRequest, "Title is required")
	}
	if req.Author == "" {
		return errJSON(c, http.StatusBadRequest, "Author is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b := model.Book{Title: req.Title, Author: req.Author, OwnerID: u.ID}
	if err := h.Books.Create(ctx, &b); err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}

	h.audit(c, u, queue.ActionBookCreated, b)
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /books.  Admins see everything; other callers only
// the books they own.  The listing is filtered, never denied.
func (h *BookHandler) List(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		items []model.Book
		err   error
	)
	if u.IsAdmin() {
		items, err = h.Books.ListAll(ctx)
	} else {
		items, err = h.Books.ListByOwner(ctx, u.ID)
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /books/:id.  Existence is checked before ownership,
// so a missing book is a 404 even for a caller who would be denied.
func (h *BookHandler) Get(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := bookID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.resolve(ctx, c, id)
	if err != nil {
		return err
	}
	if !canAccess(u, b) {
		return errJSON(c, http.StatusForbidden, msgAccessDenied)
	}
	return c.JSON(http.StatusOK, b)
}

// Patch handles PATCH /books/:id with merge semantics: fields absent
// from the body keep their stored values.  The owner is never part of
// the merge.
func (h *BookHandler) Patch(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := bookID(c)
	if err != nil {
		return err
	}
	var req patchBookReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.resolve(ctx, c, id)
	if err != nil {
		return err
	}
	if !canAccess(u, b) {
		return errJSON(c, http.StatusForbidden, msgAccessDenied)
	}
	if err := h.Books.UpdateFields(ctx, id, req.Title, req.Author); err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	updated, err := h.Books.GetByID(ctx, id)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	h.audit(c, u, queue.ActionBookUpdated, updated)
	return c.JSON(http.StatusOK, updated)
}

// Put handles PUT /books/:id with replace semantics: both mutable
// fields are required and overwritten.  The owner is never overwritten.
func (h *BookHandler) Put(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := bookID(c)
	if err != nil {
		return err
	}
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if req.Title == "" {
		return errJSON(c, http.StatusBadRequest, "Title is required")
	}
	if req.Author == "" {
		return errJSON(c, http.StatusBadRequest, "Author is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.resolve(ctx, c, id)
	if err != nil {
		return err
	}
	if !canAccess(u, b) {
		return errJSON(c, http.StatusForbidden, msgAccessDenied)
	}
	if err := h.Books.Replace(ctx, id, req.Title, req.Author); err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	updated, err := h.Books.GetByID(ctx, id)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	h.audit(c, u, queue.ActionBookUpdated, updated)
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /books/:id.  Deletion is permanent; there is no
// soft delete or tombstone.
func (h *BookHandler) Delete(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := bookID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.resolve(ctx, c, id)
	if err != nil {
		return err
	}
	if !canAccess(u, b) {
		return errJSON(c, http.StatusForbidden, msgAccessDenied)
	}
	if err := h.Books.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return errJSON(c, http.StatusNotFound, msgBookNotFound)
		}
		return errJSON(c, http.StatusInternalServerError, msgBookNotDeleted)
	}
	h.audit(c, u, queue.ActionBookDeleted, b)
	return c.NoContent(http.StatusNoContent)
}

// resolve loads a book and converts a miss into the 404 response.  Any
// other repository failure becomes a 500; the returned error is always
// the already-written response.
func (h *BookHandler) resolve(ctx context.Context, c echo.Context, id string) (model.Book, error) {
	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return model.Book{}, errJSON(c, http.StatusNotFound, msgBookNotFound)
		}
		return model.Book{}, errJSON(c, http.StatusInternalServerError, msgDatabaseError)
	}
	return b, nil
}

// audit publishes a book event, ignoring failures; auditing never
// affects the response.
func (h *BookHandler) audit(c echo.Context, u model.User, action string, b model.Book) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Publish(c.Request().Context(), queue.AuditEvent{
		Action:     action,
		ActorID:    u.ID,
		ActorEmail: u.Email,
		BookID:     b.ID,
		BookTitle:  b.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
