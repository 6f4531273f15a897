package tests

import (
	"context"
	"testing"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ScratchStoreContractTest is a reusable suite verifying that an adapter complies with ports.ScratchStore.
// It writes the keys "floor", "relic", "deck" and "temp".
func ScratchStoreContractTest(t *testing.T, store ports.ScratchStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "floor", "3-2"))

		got, err := store.Get(ctx, "floor")
		require.NoError(t, err)
		assert.Equal(t, "3-2", got)
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "relic", "first"))
		require.NoError(t, store.Put(ctx, "relic", "second"))

		got, err := store.Get(ctx, "relic")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Structured Values", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "deck", []any{"打击", "防御"}))

		got, err := store.Get(ctx, "deck")
		require.NoError(t, err)
		assert.Equal(t, []any{"打击", "防御"}, got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing-key")
		assert.ErrorIs(t, err, domain.ErrScratchMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "temp", "x"))
		require.NoError(t, store.Delete(ctx, "temp"))

		_, err := store.Get(ctx, "temp")
		assert.ErrorIs(t, err, domain.ErrScratchMiss, "Get after Delete should miss")
	})

	t.Run("Keys", func(t *testing.T) {
		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Subset(t, keys, []string{"deck", "floor", "relic"})
		assert.IsNonDecreasing(t, keys)
	})
}
