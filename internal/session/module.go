package session

import "go.uber.org/fx"

// Module provides the session manager to Fx.
var Module = fx.Provide(NewManager)
