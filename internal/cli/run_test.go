package cli

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/testutils"
	httpAdapter "github.com/aretw0/spire/pkg/adapters/http"
	"github.com/aretw0/spire/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	rig := testutils.NewRig()
	metrics := observability.NewMetrics()
	streams := httpAdapter.NewStreamManager(nil)
	agent, err := spire.New(
		spire.WithPorts(spire.Ports(rig.Ports())),
		spire.WithSleep(rig.Sleeper.Sleep),
		spire.WithLifecycleHooks(metrics.Hooks()),
		spire.WithLifecycleHooks(streams.Hooks()),
	)
	require.NoError(t, err)
	stack := &Stack{Agent: agent, Metrics: metrics, Streams: streams}

	events, cancel := streams.Subscribe()
	defer cancel()

	err = Run(context.Background(), stack, RunOptions{Interval: time.Millisecond, MaxTicks: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 2, agent.Status().Ticks)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.StateEntries.WithLabelValues("map_selection")), 1.0)
	select {
	case ev := <-events:
		assert.NotEmpty(t, ev.Type)
	default:
		t.Fatal("no lifecycle event streamed")
	}
}

func TestDiagram(t *testing.T) {
	plain := Diagram("")
	assert.Contains(t, plain, "s_initialization((\"initialization\"))")
	assert.NotContains(t, plain, "classDef")

	assert.Contains(t, Diagram("combat"), "class s_combat current;")
}
