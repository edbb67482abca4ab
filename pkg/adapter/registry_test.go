package adapter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	BaseSQLAdapter
}

func (s *stubAdapter) Connect(ctx context.Context, cfg Config) error { return nil }

func TestRegistry(t *testing.T) {
	Register("stub", func(logger *slog.Logger) Adapter {
		return &stubAdapter{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
	})

	t.Run("registered adapter resolves", func(t *testing.T) {
		assert.True(t, IsRegistered("stub"))
		assert.Contains(t, ListAdapters(), "stub")

		a, err := NewAdapter(Config{Type: "stub"}, nil)
		require.NoError(t, err)
		assert.NotNil(t, a)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, err := NewAdapter(Config{Type: "oracle"}, nil)
		require.Error(t, err)

		var unknownErr *UnknownAdapterError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "oracle", unknownErr.Type)
		assert.Contains(t, unknownErr.Available, "stub")
	})

	t.Run("empty type", func(t *testing.T) {
		_, err := NewAdapter(Config{}, nil)
		assert.ErrorContains(t, err, "adapter type not specified")
	})
}
