package names

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "c1", "Ada"))
	require.NoError(t, s.Set(ctx, "c2", "  Grace  "))

	all, err := s.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"c1": "Ada", "c2": "Grace"}, all)

	// Blank name clears the entry.
	require.NoError(t, s.Set(ctx, "c2", "  "))
	all, err = s.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"c1": "Ada"}, all)

	require.NoError(t, s.Remove(ctx, "c1"))
	require.NoError(t, s.Remove(ctx, "c1")) // repeated remove is fine
	all, err = s.Names(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "c1", "Ada"))
	require.NoError(t, s.Reset(ctx))

	all, err := s.Names(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
