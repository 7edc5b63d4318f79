// Package ecs adapts an archetype ECS world to the spawn, attach and query
// shape the armory needs.
//
// Entities are opaque handles. Components are plain Go values attached by type;
// presence of each component type is independent, so optional attributes are
// attached one at a time. All access goes through a single lock.
package ecs

import (
	"cmp"
	"fmt"
	"slices"
)

// Entity is a handle into a World. It combines a recyclable ID with a version so
// that a stale handle to a despawned entity is never mistaken for a new one.
type Entity struct {
	ID      uint32
	Version uint32
}

// String renders the handle as id:version
func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.ID, e.Version)
}

// byID orders entities by ID in place
func byID(es []Entity) {
	slices.SortFunc(es, func(a, b Entity) int { return cmp.Compare(a.ID, b.ID) })
}
