// Package view lets the mutation service tell presentation layers that a
// rendered view is stale. Implementations live with the layer that owns the
// view; the service only emits the event.
package view

import "context"

// Known paths whose listings depend on package data.
const (
	PathPublic = "/"
	PathAdmin  = "/admin"
)

// Notifier receives invalidation events for a set of paths.
type Notifier interface {
	InvalidatePath(ctx context.Context, path string)
}

// GroupTag collects notifiers from the Fx graph.
const GroupTag = `group:"view.notifiers"`
