package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ Tick int }

func TestResources(t *testing.T) {
	t.Run("insert and get", func(t *testing.T) {
		w := NewWorld()
		c := &clock{Tick: 7}
		require.NoError(t, InsertResource(w, c))

		got, ok := GetResource[clock](w)
		require.True(t, ok)
		assert.Same(t, c, got)
	})

	t.Run("duplicate insert fails", func(t *testing.T) {
		w := NewWorld()
		require.NoError(t, InsertResource(w, &clock{}))

		err := InsertResource(w, &clock{Tick: 1})
		assert.ErrorIs(t, err, ErrResourceExists)
		got, _ := GetResource[clock](w)
		assert.Zero(t, got.Tick, "first resource is kept")
	})

	t.Run("nil insert fails", func(t *testing.T) {
		assert.Error(t, InsertResource[clock](NewWorld(), nil))
	})

	t.Run("missing resource", func(t *testing.T) {
		_, ok := GetResource[clock](NewWorld())
		assert.False(t, ok)
	})
}
