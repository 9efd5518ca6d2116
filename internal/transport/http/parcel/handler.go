package parcel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/paketku/internal/dto"
	"github.com/Additional-Code/paketku/internal/entity"
	"github.com/Additional-Code/paketku/internal/presentation/http/response"
	"github.com/Additional-Code/paketku/internal/tracking"
	"github.com/Additional-Code/paketku/internal/view"
	"github.com/Additional-Code/paketku/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/paketku/transport/http/parcel")

// PackageService is the service surface the public endpoints need.
type PackageService interface {
	List(ctx context.Context, query string) ([]*entity.Package, error)
	Get(ctx context.Context, id int64) (*entity.Package, error)
	MarkReceived(ctx context.Context, id int64, receiverName string) (*entity.Package, error)
}

// Handler exposes the public package endpoints over HTTP.
type Handler struct {
	svc    PackageService
	epochs *EpochNotifier
}

// NewHandler constructs a public package Handler.
func NewHandler(svc PackageService, epochs *EpochNotifier) *Handler {
	return &Handler{svc: svc, epochs: epochs}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/packages")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("/:id/receive", h.receive)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)
	query := c.QueryParam("q")

	ctx, span := httpTracer.Start(c.Request().Context(), "packages.list", trace.WithAttributes(attribute.Bool("filtered", query != "")))
	defer span.End()

	etag := h.listETag(query)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	pkgs, err := h.svc.List(ctx, query)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.PackageResponse, 0, len(pkgs))
	for _, pkg := range pkgs {
		out = append(out, ToResponse(pkg))
	}

	c.Response().Header().Set("ETag", etag)
	return b.WithData(out).WithMeta("count", len(out)).Build()
}

// listETag changes whenever a mutation invalidates the public view, so
// clients polling the list can revalidate cheaply.
func (h *Handler) listETag(query string) string {
	return fmt.Sprintf(`W/"packages-%d-%s"`, h.epochs.Epoch(view.PathPublic), url.QueryEscape(query))
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "packages.getByID", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(ToResponse(pkg)).Build()
}

func (h *Handler) receive(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.ReceiveRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "packages.receive", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := h.svc.MarkReceived(ctx, id, payload.ReceiverName)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(ToResponse(pkg)).Build()
}

// ToResponse maps a package row to its transport shape, deriving the
// courier tracking URL.
func ToResponse(pkg *entity.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:             pkg.ID,
		PackageName:    pkg.PackageName,
		SenderName:     pkg.SenderName,
		SenderAddress:  pkg.SenderAddress,
		Courier:        pkg.Courier,
		TrackingNumber: pkg.TrackingNumber,
		RecipientPhone: pkg.RecipientPhone,
		IsCod:          pkg.IsCod,
		CodAmount:      pkg.CodAmount,
		DeliveryStatus: string(pkg.DeliveryStatus),
		ReceiverName:   pkg.ReceiverName,
		ReceivedAt:     pkg.ReceivedAt,
		CreatedAt:      pkg.CreatedAt,
		UpdatedAt:      pkg.UpdatedAt,
		TrackingURL:    tracking.URL(pkg.Courier, pkg.TrackingNumber),
	}
}
