// Package session implements the admin gate: one shared password, one
// opaque cookie. There is no user store, no rotation, and no revocation.
package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/presentation/http/response"
	"github.com/Additional-Code/paketku/pkg/errorbank"
)

// ErrWrongPassword is deliberately generic; there is only one credential,
// so there is nothing more specific to reveal.
var ErrWrongPassword = errorbank.Unauthorized("wrong password")

// Manager validates the admin password and issues/verifies session cookies.
type Manager struct {
	cfg    config.Admin
	token  string
	logger *zap.Logger
}

// NewManager derives the expected session token from the configured password.
func NewManager(cfg config.Config, logger *zap.Logger) *Manager {
	sum := sha256.Sum256([]byte("paketku/admin:" + cfg.Admin.Password))
	return &Manager{
		cfg:    cfg.Admin,
		token:  hex.EncodeToString(sum[:]),
		logger: logger,
	}
}

// Authenticate checks the submitted password against the configured secret.
func (m *Manager) Authenticate(password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.cfg.Password)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// Cookie builds the session cookie issued after a successful login.
func (m *Manager) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    m.token,
		Path:     "/",
		MaxAge:   int(m.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an expired replacement cookie for logout.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// Authorize reports whether the request carries a valid admin session.
// A missing or mismatching cookie means the caller is public.
func (m *Manager) Authorize(r *http.Request) bool {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(m.token)) == 1
}

// RequireAdmin guards a route group; unauthenticated requests get 401 with
// the standard error envelope (the JSON analog of a login redirect).
func (m *Manager) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.Authorize(c.Request()) {
				if m.logger != nil {
					m.logger.Debug("admin access denied", zap.String("path", c.Path()))
				}
				return response.New(c).WithError(errorbank.Unauthorized("admin session required")).Build()
			}
			return next(c)
		}
	}
}
