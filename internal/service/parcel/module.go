package parcel

import (
	"go.uber.org/fx"

	repo "github.com/Additional-Code/paketku/internal/repository/parcel"
)

// Module provides the package service to Fx, binding the concrete
// repository to the service's Repository interface.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
