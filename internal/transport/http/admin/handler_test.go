package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/dto"
	"github.com/Additional-Code/paketku/internal/entity"
	"github.com/Additional-Code/paketku/internal/session"
	"github.com/Additional-Code/paketku/pkg/errorbank"
)

type stubService struct {
	created *entity.Package
	updated *entity.Package
	err     error

	deletedID int64
}

func (s *stubService) Get(_ context.Context, id int64) (*entity.Package, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, errorbank.NotFound("package not found")
}

func (s *stubService) Create(_ context.Context, _ dto.CreatePackageRequest) (*entity.Package, error) {
	return s.created, s.err
}

func (s *stubService) Update(_ context.Context, _ int64, _ dto.UpdatePackageRequest) (*entity.Package, error) {
	return s.updated, s.err
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

func newTestServer(svc *stubService) (*echo.Echo, *session.Manager) {
	sessions := session.NewManager(config.Config{
		Admin: config.Admin{
			Password:   "rahasia-rumah",
			CookieName: "admin_session",
			SessionTTL: time.Hour,
		},
	}, nil)

	e := echo.New()
	Register(e, NewHandler(svc, sessions))
	return e, sessions
}

func sampleEntity(id int64) *entity.Package {
	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	return &entity.Package{
		ID:             id,
		PackageName:    "Sepatu lari",
		SenderName:     "Toko Sport Jaya",
		Courier:        "JNE",
		TrackingNumber: "JNE0012345678",
		RecipientPhone: "081234567890",
		DeliveryStatus: entity.StatusWaiting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestHandler_Login(t *testing.T) {
	e, sessions := newTestServer(&stubService{})

	t.Run("correct password issues cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"rahasia-rumah"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "admin_session", cookies[0].Name)
		assert.Equal(t, sessions.Cookie().Value, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password yields 401 and no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"salah"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestHandler_GatedRoutesRequireSession(t *testing.T) {
	e, _ := newTestServer(&stubService{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/admin/packages"},
		{http.MethodGet, "/admin/packages/1"},
		{http.MethodPut, "/admin/packages/1"},
		{http.MethodDelete, "/admin/packages/1"},
		{http.MethodPost, "/admin/logout"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	svc := &stubService{created: sampleEntity(1)}
	e, sessions := newTestServer(svc)

	body := `{"package_name":"Sepatu lari","sender_name":"Toko Sport Jaya","courier":"JNE","tracking_number":"JNE0012345678","recipient_phone":"081234567890"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/packages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(sessions.Cookie())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "JNE0012345678")
	assert.Contains(t, rec.Body.String(), `"tracking_url"`)
}

func TestHandler_Update(t *testing.T) {
	updated := sampleEntity(1)
	updated.PackageName = "Sepatu futsal"

	svc := &stubService{updated: updated}
	e, sessions := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPut, "/admin/packages/1", strings.NewReader(`{"package_name":"Sepatu futsal"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(sessions.Cookie())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sepatu futsal")
}

func TestHandler_Delete(t *testing.T) {
	svc := &stubService{}
	e, sessions := newTestServer(svc)

	req := httptest.NewRequest(http.MethodDelete, "/admin/packages/42", nil)
	req.AddCookie(sessions.Cookie())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 42, svc.deletedID)
}

func TestHandler_Logout(t *testing.T) {
	e, sessions := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(sessions.Cookie())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
