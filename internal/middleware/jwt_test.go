package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhmetov/bookstore-api/internal/model"
	"github.com/akhmetov/bookstore-api/internal/repository"
	"github.com/akhmetov/bookstore-api/internal/utils"
)

const testSecret = "test-secret"

// fakeResolver counts lookups so tests can assert that rejected
// requests never reach the datastore.
type fakeResolver struct {
	users map[string]model.User
	calls int
}

func (f *fakeResolver) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.calls++
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func runGate(t *testing.T, authHeader string, resolver *fakeResolver) (*httptest.ResponseRecorder, bool, model.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var seen model.User
	next := func(c echo.Context) error {
		reached = true
		seen, _ = c.Get("user").(model.User)
		return c.NoContent(http.StatusOK)
	}
	err := JWTAuth(testSecret, resolver)(next)(c)
	require.NoError(t, err)
	return rec, reached, seen
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	resolver := &fakeResolver{}
	rec, reached, _ := runGate(t, "", resolver)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Zero(t, resolver.calls, "rejected request must not hit the store")
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuth_NotBearer(t *testing.T) {
	resolver := &fakeResolver{}
	rec, reached, _ := runGate(t, "Basic dXNlcjpwYXNz", resolver)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Zero(t, resolver.calls)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	resolver := &fakeResolver{}
	rec, reached, _ := runGate(t, "Bearer not.a.jwt", resolver)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Zero(t, resolver.calls, "signature check precedes any lookup")
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "a@b.com")
	require.NoError(t, err)

	resolver := &fakeResolver{}
	rec, reached, _ := runGate(t, "Bearer "+tok, resolver)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Zero(t, resolver.calls)
}

func TestJWTAuth_UnknownUser(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "ghost@b.com")
	require.NoError(t, err)

	resolver := &fakeResolver{users: map[string]model.User{}}
	rec, reached, _ := runGate(t, "Bearer "+tok, resolver)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Equal(t, 1, resolver.calls)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestJWTAuth_Success(t *testing.T) {
	want := model.User{ID: "u-1", Email: "a@b.com", Role: model.RoleUser}
	tok, err := utils.NewAccessToken(testSecret, want.Email)
	require.NoError(t, err)

	resolver := &fakeResolver{users: map[string]model.User{want.Email: want}}
	rec, reached, seen := runGate(t, "Bearer "+tok, resolver)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, want, seen, "resolved user attached to context")
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole(model.RoleAdmin, model.RoleUser)

	cases := []struct {
		name string
		user any
		want int
	}{
		{"admin allowed", model.User{ID: "u", Role: model.RoleAdmin}, http.StatusOK},
		{"user allowed", model.User{ID: "u", Role: model.RoleUser}, http.StatusOK},
		{"unknown role denied", model.User{ID: "u", Role: "superuser"}, http.StatusForbidden},
		{"no user denied", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.user != nil {
				c.Set("user", tc.user)
			}
			require.NoError(t, mw(next)(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
