package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope(t *testing.T) {
	t.Run("modules populate the scope", func(t *testing.T) {
		s := NewScope(func(s *Scope) {
			s.Set("db", "connection")
		})

		v, ok := s.Get("db")
		require.True(t, ok)
		assert.Equal(t, "connection", v)
	})

	t.Run("set replaces previous binding", func(t *testing.T) {
		s := NewScope()
		s.Set("k", 1)
		s.Set("k", 2)

		v, _ := s.Get("k")
		assert.Equal(t, 2, v)
	})

	t.Run("missing key", func(t *testing.T) {
		s := NewScope()

		_, ok := s.Get("missing")
		assert.False(t, ok)
	})

	t.Run("cleanups run in reverse order", func(t *testing.T) {
		var order []string

		s := NewScope()
		s.OnDestroy(func() { order = append(order, "first") })
		s.OnDestroy(func() { order = append(order, "second") })
		s.Destroy()

		assert.Equal(t, []string{"second", "first"}, order)
	})

	t.Run("destroy is idempotent", func(t *testing.T) {
		count := 0

		s := NewScope()
		s.OnDestroy(func() { count++ })
		s.Destroy()
		s.Destroy()

		assert.Equal(t, 1, count)
		assert.True(t, s.Destroyed())
	})

	t.Run("set after destroy is ignored", func(t *testing.T) {
		s := NewScope()
		s.Destroy()
		s.Set("k", 1)

		_, ok := s.Get("k")
		assert.False(t, ok)
	})

	t.Run("nil module is skipped", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewScope(nil)
		})
	})
}
