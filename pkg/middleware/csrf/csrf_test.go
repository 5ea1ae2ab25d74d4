package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("", Middleware(Config{SkipPaths: []string{"/hook"}}))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	g.GET("/form", ok)
	g.POST("/form", ok)
	g.POST("/hook", ok)
	return e
}

func issueToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			assert.Equal(t, token, ck.Value)
			found = true
		}
	}
	require.True(t, found, "csrf cookie not set")
	return token
}

func post(e *echo.Echo, path, cookie, header, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Host = "example.com"
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: cookie})
	}
	if header != "" {
		req.Header.Set("X-CSRF-Token", header)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	e := newEcho()
	token := issueToken(t, e)

	t.Run("matching token passes", func(t *testing.T) {
		rec := post(e, "/form", token, token, "http://example.com")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := post(e, "/form", token, "", "http://example.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mismatched token is rejected", func(t *testing.T) {
		rec := post(e, "/form", token, token+"x", "http://example.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("foreign origin is rejected", func(t *testing.T) {
		rec := post(e, "/form", token, token, "http://evil.test")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid origin")
	})

	t.Run("skipped path passes", func(t *testing.T) {
		rec := post(e, "/hook", "", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
