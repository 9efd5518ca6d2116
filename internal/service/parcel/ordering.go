package parcel

import (
	"sort"

	"github.com/Additional-Code/paketku/internal/entity"
)

// Comparator orders two packages. Negative means a sorts before b, zero
// defers to the next comparator in the chain.
type Comparator func(a, b *entity.Package) int

// Chain combines comparators into one; the first non-zero answer wins.
func Chain(cmps ...Comparator) Comparator {
	return func(a, b *entity.Package) int {
		for _, cmp := range cmps {
			if v := cmp(a, b); v != 0 {
				return v
			}
		}
		return 0
	}
}

// byStatusBucket puts waiting packages before received ones.
func byStatusBucket(a, b *entity.Package) int {
	if a.DeliveryStatus == b.DeliveryStatus {
		return 0
	}
	if a.DeliveryStatus == entity.StatusWaiting {
		return -1
	}
	return 1
}

// byCodPriority puts COD before non-COD, but only while both packages are
// still waiting; the distinction is irrelevant once a package is received.
func byCodPriority(a, b *entity.Package) int {
	if a.DeliveryStatus != entity.StatusWaiting || b.DeliveryStatus != entity.StatusWaiting {
		return 0
	}
	if a.IsCod == b.IsCod {
		return 0
	}
	if a.IsCod {
		return -1
	}
	return 1
}

// byCreatedAtDesc puts the most recently created package first.
func byCreatedAtDesc(a, b *entity.Package) int {
	switch {
	case a.CreatedAt.After(b.CreatedAt):
		return -1
	case a.CreatedAt.Before(b.CreatedAt):
		return 1
	default:
		return 0
	}
}

// DefaultOrder is the listing order: waiting before received, COD first
// within waiting, newest first within each group.
var DefaultOrder = Chain(byStatusBucket, byCodPriority, byCreatedAtDesc)

// Sort orders packages in place by DefaultOrder. The sort is stable, so
// packages created at the same instant keep their input order.
func Sort(pkgs []*entity.Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		return DefaultOrder(pkgs[i], pkgs[j]) < 0
	})
}
