package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("register and look up", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(&staticSource{class: "page"}))

		source, err := r.Get("page")
		require.NoError(t, err)
		assert.Equal(t, "page", source.Class())
	})

	t.Run("duplicate class is rejected", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(&staticSource{class: "page"}))

		err := r.Register(&staticSource{class: "page"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("empty class is rejected", func(t *testing.T) {
		r := NewRegistry()
		require.Error(t, r.Register(&staticSource{class: ""}))
		require.Error(t, r.Register(nil))
	})

	t.Run("unknown class errors", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Get("ghost")
		require.Error(t, err)
	})

	t.Run("classes are listed sorted", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(&staticSource{class: "post"}))
		require.NoError(t, r.Register(&staticSource{class: "article"}))
		require.NoError(t, r.Register(&staticSource{class: "page"}))

		assert.Equal(t, []string{"article", "page", "post"}, r.ListClasses())
	})
}
