package camera

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetEnabled(ctx, "c1", true))
	require.NoError(t, s.SetEnabled(ctx, "c2", true))
	require.NoError(t, s.SetEnabled(ctx, "c2", false))

	enabled, err := s.Enabled(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"c1"}, enabled)

	require.NoError(t, s.Remove(ctx, "c1"))
	enabled, err = s.Enabled(ctx)
	require.NoError(t, err)
	require.Empty(t, enabled)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetEnabled(ctx, "c1", true))
	require.NoError(t, s.Reset(ctx))

	enabled, err := s.Enabled(ctx)
	require.NoError(t, err)
	require.Empty(t, enabled)
}
