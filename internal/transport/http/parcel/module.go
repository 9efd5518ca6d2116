package parcel

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	service "github.com/Additional-Code/paketku/internal/service/parcel"
	"github.com/Additional-Code/paketku/internal/view"
)

// Module wires the public package handlers and the view-epoch notifier.
var Module = fx.Options(
	fx.Provide(NewEpochNotifier),
	fx.Provide(fx.Annotate(
		func(n *EpochNotifier) view.Notifier { return n },
		fx.ResultTags(view.GroupTag),
	)),
	fx.Provide(func(s *service.Service) PackageService { return s }),
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler) {
		Register(e, h)
	}),
)
