// Package admin exposes the session-gated mutation endpoints.
package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/paketku/internal/dto"
	"github.com/Additional-Code/paketku/internal/entity"
	"github.com/Additional-Code/paketku/internal/presentation/http/response"
	"github.com/Additional-Code/paketku/internal/session"
	parceltransport "github.com/Additional-Code/paketku/internal/transport/http/parcel"
	"github.com/Additional-Code/paketku/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/paketku/transport/http/admin")

// PackageService is the service surface the admin endpoints need.
type PackageService interface {
	Get(ctx context.Context, id int64) (*entity.Package, error)
	Create(ctx context.Context, input dto.CreatePackageRequest) (*entity.Package, error)
	Update(ctx context.Context, id int64, patch dto.UpdatePackageRequest) (*entity.Package, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes login/logout and the package mutation endpoints.
type Handler struct {
	svc      PackageService
	sessions *session.Manager
}

// NewHandler constructs an admin Handler.
func NewHandler(svc PackageService, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// Register wires admin routes. Everything except login sits behind the
// session middleware.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/admin")
	g.POST("/login", h.login)

	gated := g.Group("", h.sessions.RequireAdmin())
	gated.POST("/logout", h.logout)
	gated.POST("/packages", h.create)
	gated.GET("/packages/:id", h.getByID)
	gated.PUT("/packages/:id", h.update)
	gated.DELETE("/packages/:id", h.delete)
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	_, span := httpTracer.Start(c.Request().Context(), "admin.login")
	defer span.End()

	if err := h.sessions.Authenticate(payload.Password); err != nil {
		return b.WithError(err).Build()
	}

	c.SetCookie(h.sessions.Cookie())
	return b.WithData(map[string]bool{"authenticated": true}).Build()
}

func (h *Handler) logout(c echo.Context) error {
	c.SetCookie(h.sessions.ClearCookie())
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreatePackageRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.packages.create", trace.WithAttributes(
		attribute.String("package.tracking_number", payload.TrackingNumber),
	))
	defer span.End()

	pkg, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(parceltransport.ToResponse(pkg)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.packages.getByID", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(parceltransport.ToResponse(pkg)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.UpdatePackageRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.packages.update", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := h.svc.Update(ctx, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(parceltransport.ToResponse(pkg)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.packages.delete", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return c.NoContent(http.StatusNoContent)
}
