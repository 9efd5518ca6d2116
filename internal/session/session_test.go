package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/paketku/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(config.Config{
		Admin: config.Admin{
			Password:   "rahasia-rumah",
			CookieName: "admin_session",
			SessionTTL: 7 * 24 * time.Hour,
		},
	}, nil)
}

func TestManager_Authenticate(t *testing.T) {
	m := testManager(t)

	t.Run("correct password", func(t *testing.T) {
		assert.NoError(t, m.Authenticate("rahasia-rumah"))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := m.Authenticate("salah")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("empty password", func(t *testing.T) {
		assert.Error(t, m.Authenticate(""))
	})
}

func TestManager_Cookie(t *testing.T) {
	m := testManager(t)

	cookie := m.Cookie()
	assert.Equal(t, "admin_session", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	cleared := m.ClearCookie()
	assert.Equal(t, "admin_session", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestManager_Authorize(t *testing.T) {
	m := testManager(t)

	t.Run("no cookie means public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/packages/1", nil)
		assert.False(t, m.Authorize(req))
	})

	t.Run("issued cookie grants admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/packages/1", nil)
		req.AddCookie(m.Cookie())
		assert.True(t, m.Authorize(req))
	})

	t.Run("tampered cookie means public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/packages/1", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: "true"})
		assert.False(t, m.Authorize(req))
	})

	t.Run("token differs per password", func(t *testing.T) {
		other := NewManager(config.Config{
			Admin: config.Admin{Password: "beda", CookieName: "admin_session", SessionTTL: time.Hour},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin/packages/1", nil)
		req.AddCookie(other.Cookie())
		assert.False(t, m.Authorize(req))
	})
}

func TestManager_RequireAdmin(t *testing.T) {
	m := testManager(t)
	e := echo.New()

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	handler := m.RequireAdmin()(next)

	t.Run("denies without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/packages", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("admits with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/packages", nil)
		req.AddCookie(m.Cookie())
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}
