package parcel

import (
	"context"
	"sync"
	"sync/atomic"
)

// EpochNotifier is the presentation layer's view-invalidation sink. Every
// mutation bumps the epoch of the affected paths; list responses fold the
// epoch into their ETag so stale client caches revalidate.
type EpochNotifier struct {
	epochs sync.Map // path -> *atomic.Int64
}

// NewEpochNotifier constructs an empty notifier; unknown paths start at zero.
func NewEpochNotifier() *EpochNotifier {
	return &EpochNotifier{}
}

// InvalidatePath bumps the epoch for a path.
func (n *EpochNotifier) InvalidatePath(_ context.Context, path string) {
	counter, _ := n.epochs.LoadOrStore(path, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
}

// Epoch returns the current epoch for a path.
func (n *EpochNotifier) Epoch(path string) int64 {
	counter, ok := n.epochs.Load(path)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int64).Load()
}
