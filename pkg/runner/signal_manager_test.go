package runner_test

import (
	"context"
	"testing"

	"github.com/aretw0/spire/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := runner.NewSignalManager(context.Background())

	ctx := sm.Context()
	assert.NoError(t, ctx.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSignalManager_Parent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sm := runner.NewSignalManager(parent)
	defer sm.Stop()

	cancel()
	assert.ErrorIs(t, sm.Context().Err(), context.Canceled)
}
