package shortener_test

import (
	"strings"
	"testing"

	"github.com/hypd/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	t.Run("generates codes of the requested length", func(t *testing.T) {
		generate, err := shortener.NewGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			assert.Len(t, generate(), shortener.DefaultCodeLength)
		}
	})

	t.Run("draws only from the base62 alphabet", func(t *testing.T) {
		generate, err := shortener.NewGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			for _, r := range generate() {
				assert.True(t, strings.ContainsRune(shortener.Alphabet, r))
			}
		}
	})

	t.Run("produces distinct codes with overwhelming probability", func(t *testing.T) {
		generate, err := shortener.NewGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			seen[generate()] = struct{}{}
		}

		assert.Len(t, seen, 1000)
	})

	t.Run("supports custom lengths", func(t *testing.T) {
		generate, err := shortener.NewGenerator(10)
		require.NoError(t, err)

		assert.Len(t, generate(), 10)
	})

	t.Run("rejects invalid lengths", func(t *testing.T) {
		_, err := shortener.NewGenerator(0)

		assert.Error(t, err)
	})
}
