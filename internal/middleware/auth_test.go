package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()
	m, err := NewAuthMiddleware("budgetbot.us.auth0.com", "https://ml.budgetbot.app")
	require.NoError(t, err)
	return m
}

func runAuth(t *testing.T, m *AuthMiddleware, header string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/train", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticate()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := newTestAuthMiddleware(t)

	err := runAuth(t, m, "")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "missing authorization header", httpErr.Message)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := newTestAuthMiddleware(t)

	for _, header := range []string{"token abc", "Bearer"} {
		err := runAuth(t, m, header)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		assert.Equal(t, "invalid authorization header format", httpErr.Message)
	}
}

func TestGetSubject_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetSubject(c))
}
