package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/paketku/internal/cache"
	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/database"
	"github.com/Additional-Code/paketku/internal/logger"
	"github.com/Additional-Code/paketku/internal/messaging"
	"github.com/Additional-Code/paketku/internal/observability"
	repositoryparcel "github.com/Additional-Code/paketku/internal/repository/parcel"
	httpserver "github.com/Additional-Code/paketku/internal/server/http"
	serviceparcel "github.com/Additional-Code/paketku/internal/service/parcel"
	"github.com/Additional-Code/paketku/internal/session"
	transporthttp "github.com/Additional-Code/paketku/internal/transport/http"
	"github.com/Additional-Code/paketku/internal/worker"
	workerparcel "github.com/Additional-Code/paketku/internal/worker/parcel"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryparcel.Module,
	serviceparcel.Module,
	session.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerparcel.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
