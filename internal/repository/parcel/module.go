package parcel

import "go.uber.org/fx"

// Module provides the package repository to Fx.
var Module = fx.Provide(NewRepository)
