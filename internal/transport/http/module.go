package http

import (
	"go.uber.org/fx"

	admintransport "github.com/Additional-Code/paketku/internal/transport/http/admin"
	parceltransport "github.com/Additional-Code/paketku/internal/transport/http/parcel"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	parceltransport.Module,
	admintransport.Module,
)
