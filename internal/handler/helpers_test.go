package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/queue"
	"github.com/akhmetov/bookstore-api/internal/repository"
	"github.com/akhmetov/bookstore-api/internal/utils"
)

// fakeUserStore is an in-memory UserStore double.
type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, email, password, role string, cost int) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// fakeBookStore is an in-memory BookStore double.  getCalls lets tests
// assert that a rejected request never resolved a book; deadlines counts
// the calls that arrived with a context deadline set.
type fakeBookStore struct {
	mu         sync.Mutex
	books      map[string]model.Book
	getCalls   int
	deadlines  int
	failDelete bool
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: map[string]model.Book{}}
}

// noteDeadline must be called with f.mu held.
func (f *fakeBookStore) noteDeadline(ctx context.Context) {
	if _, ok := ctx.Deadline(); ok {
		f.deadlines++
	}
}

func (f *fakeBookStore) Create(ctx context.Context, b *model.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.books[b.ID] = *b
	return nil
}

func (f *fakeBookStore) GetByID(ctx context.Context, id string) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	f.getCalls++
	b, ok := f.books[id]
	if !ok {
		return model.Book{}, repository.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeBookStore) ListAll(ctx context.Context) ([]model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	items := make([]model.Book, 0, len(f.books))
	for _, b := range f.books {
		items = append(items, b)
	}
	return items, nil
}

func (f *fakeBookStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	items := make([]model.Book, 0)
	for _, b := range f.books {
		if b.OwnerID == ownerID {
			items = append(items, b)
		}
	}
	return items, nil
}

func (f *fakeBookStore) UpdateFields(ctx context.Context, id string, title, author *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	b, ok := f.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	b.UpdatedAt = time.Now().UTC()
	f.books[id] = b
	return nil
}

func (f *fakeBookStore) Replace(ctx context.Context, id, title, author string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	b, ok := f.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	b.Title = title
	b.Author = author
	b.UpdatedAt = time.Now().UTC()
	f.books[id] = b
	return nil
}

func (f *fakeBookStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteDeadline(ctx)
	if f.failDelete {
		return errors.New("delete failed")
	}
	if _, ok := f.books[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

// recordingAudit captures published events.
type recordingAudit struct {
	mu     sync.Mutex
	events []queue.AuditEvent
}

func (r *recordingAudit) Publish(_ context.Context, ev queue.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// newTestCtx builds an echo context carrying a JSON body and, when u is
// non-nil, an authenticated user as the JWTAuth middleware would leave it.
func newTestCtx(t *testing.T, method, target, body string, u *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if u != nil {
		c.Set("user", *u)
	}
	return c, rec
}

// withBookID points the context at the /books/:id route.
func withBookID(c echo.Context, id string) {
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
}
