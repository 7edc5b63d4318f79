package ecs

import (
	"iter"

	arche "github.com/mlange-42/arche/ecs"
)

// Pair holds the two components yielded by Each2
type Pair[A, B any] struct {
	First  A
	Second B
}

// Each iterates, in entity ID order, over every live entity carrying an A
// component. Values are copied out of the archetype query before the first
// yield, so the callback may use the World freely.
func Each[A any](w *World) iter.Seq2[Entity, A] {
	return func(yield func(Entity, A) bool) {
		owners, values := collect(w, func(q *arche.Query, ids []arche.ID) A {
			return read[A](q, ids[0])
		}, arche.ComponentID[A])
		for _, e := range owners {
			if !yield(e, values[e]) {
				return
			}
		}
	}
}

// Each2 iterates, in entity ID order, over every live entity carrying both an A
// and a B component.
func Each2[A, B any](w *World) iter.Seq2[Entity, Pair[A, B]] {
	return func(yield func(Entity, Pair[A, B]) bool) {
		owners, rows := collect(w, func(q *arche.Query, ids []arche.ID) Pair[A, B] {
			return Pair[A, B]{First: read[A](q, ids[0]), Second: read[B](q, ids[1])}
		}, arche.ComponentID[A], arche.ComponentID[B])
		for _, e := range owners {
			if !yield(e, rows[e]) {
				return
			}
		}
	}
}

// collect runs one arche query over the given component types and copies a row
// per match. The query is drained before the lock is released.
func collect[R any](w *World, row func(*arche.Query, []arche.ID) R, types ...func(*arche.World) arche.ID) ([]Entity, map[Entity]R) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]arche.ID, len(types))
	for i, typ := range types {
		ids[i] = typ(&w.inner)
	}

	q := w.inner.Query(arche.All(ids...))
	owners := make([]Entity, 0, q.Count())
	rows := make(map[Entity]R, q.Count())
	for q.Next() {
		e, ok := w.handles[q.Entity()]
		if !ok {
			continue
		}
		owners = append(owners, e)
		rows[e] = row(&q, ids)
	}
	byID(owners)
	return owners, rows
}

func read[T any](q *arche.Query, id arche.ID) T {
	var v T
	if isTag[T]() {
		return v
	}
	return *(*T)(q.Get(id))
}
