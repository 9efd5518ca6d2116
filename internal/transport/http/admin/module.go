package admin

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	service "github.com/Additional-Code/paketku/internal/service/parcel"
)

// Module wires the admin HTTP handlers.
var Module = fx.Options(
	fx.Provide(func(s *service.Service) PackageService { return s }),
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler) {
		Register(e, h)
	}),
)
