package ecs

import (
	"fmt"
	"reflect"

	arche "github.com/mlange-42/arche/ecs"
)

// InsertResource stores res as the world's T singleton. It fails if a resource
// of type T is already present.
func InsertResource[T any](w *World, res *T) error {
	if res == nil {
		return fmt.Errorf("cannot insert nil resource %s", reflect.TypeFor[T]())
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id := arche.ResourceID[T](&w.inner)
	resources := w.inner.Resources()
	if resources.Has(id) {
		return fmt.Errorf("%w: %s", ErrResourceExists, reflect.TypeFor[*T]())
	}
	resources.Add(id, res)
	return nil
}

// GetResource returns the world's T singleton if present
func GetResource[T any](w *World) (*T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := arche.ResourceID[T](&w.inner)
	resources := w.inner.Resources()
	if !resources.Has(id) {
		return nil, false
	}
	res, ok := resources.Get(id).(*T)
	return res, ok
}
