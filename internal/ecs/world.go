package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	arche "github.com/mlange-42/arche/ecs"
)

// Sentinel errors
var (
	ErrDeadEntity     = errors.New("entity is not alive")
	ErrResourceExists = errors.New("resource of the same type already exists")
)

// World owns entities, their components and world-level resources. Storage and
// archetype bookkeeping are delegated to an arche world; World adds versioned
// handles and serializes access.
type World struct {
	mu       sync.Mutex
	inner    arche.World
	entities map[Entity]arche.Entity
	handles  map[arche.Entity]Entity
	nextVer  uint32
}

type worldOptions struct {
	capacity int
}

// Option configures a World
type Option func(*worldOptions)

// WithCapacity grows the underlying archetype storage in steps of n entities
func WithCapacity(n int) Option {
	return func(o *worldOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// NewWorld creates an empty World
func NewWorld(opts ...Option) *World {
	var o worldOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := arche.NewConfig()
	if o.capacity > 0 {
		cfg = cfg.WithCapacityIncrement(o.capacity)
	}
	return &World{
		inner:    arche.NewWorld(cfg),
		entities: make(map[Entity]arche.Entity, o.capacity),
		handles:  make(map[arche.Entity]Entity, o.capacity),
		nextVer:  1,
	}
}

// Spawn creates a new entity with no components
func (w *World) Spawn() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	inner := w.inner.NewEntity()
	e := Entity{ID: inner.ID(), Version: w.nextVer}
	w.nextVer++
	w.entities[e] = inner
	w.handles[inner] = e
	return e
}

// Despawn removes e and all of its components. Stale handles are ignored.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	inner, ok := w.resolve(e)
	if !ok {
		return
	}
	w.inner.RemoveEntity(inner)
	delete(w.entities, e)
	delete(w.handles, inner)
}

// Len returns the number of live entities
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// resolve must be called with the lock held
func (w *World) resolve(e Entity) (arche.Entity, bool) {
	inner, ok := w.entities[e]
	if !ok || !w.inner.Alive(inner) {
		return arche.Entity{}, false
	}
	return inner, true
}

// Attach sets the T component of e, replacing any previous value. The entity
// moves to the archetype that includes T the first time T is attached.
func Attach[T any](w *World, e Entity, v T) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	inner, ok := w.resolve(e)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeadEntity, e)
	}
	id := arche.ComponentID[T](&w.inner)
	if !w.inner.Has(inner, id) {
		w.inner.Add(inner, id)
	}
	if !isTag[T]() {
		*(*T)(w.inner.Get(inner, id)) = v
	}
	return nil
}

// Get returns the T component of e
func Get[T any](w *World, e Entity) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var zero T
	inner, ok := w.resolve(e)
	if !ok {
		return zero, false
	}
	id := arche.ComponentID[T](&w.inner)
	if !w.inner.Has(inner, id) {
		return zero, false
	}
	if isTag[T]() {
		return zero, true
	}
	return *(*T)(w.inner.Get(inner, id)), true
}

// Has reports whether e carries a T component
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// isTag reports whether T carries no data, like the variant markers
func isTag[T any]() bool {
	return reflect.TypeFor[T]().Size() == 0
}
