package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/spire/pkg/adapters/memory"
	contract "github.com/aretw0/spire/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	contract.ScratchStoreContractTest(t, memory.NewStore())
}

func TestStore_ConcurrentWriters(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "gold", i)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "gold")
	require.NoError(t, err)
	assert.IsType(t, 0, got)
}
