package spire_test

import (
	"context"
	"testing"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/testutils"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgent(t *testing.T, rig *testutils.Rig, opts ...spire.Option) *spire.Agent {
	t.Helper()
	base := []spire.Option{
		spire.WithPorts(spire.Ports(rig.Ports())),
		spire.WithSleep(rig.Sleeper.Sleep),
	}
	agent, err := spire.New(append(base, opts...)...)
	require.NoError(t, err)
	return agent
}

func TestNew(t *testing.T) {
	t.Run("Requires Frames", func(t *testing.T) {
		_, err := spire.New()
		assert.Error(t, err)
	})

	t.Run("Unknown Initial State", func(t *testing.T) {
		rig := testutils.NewRig()
		_, err := spire.New(spire.WithPorts(spire.Ports(rig.Ports())), spire.WithInitialState("lobby"))
		assert.Error(t, err)
	})

	t.Run("Generates Run ID", func(t *testing.T) {
		a := newAgent(t, testutils.NewRig())
		b := newAgent(t, testutils.NewRig())

		assert.NotEmpty(t, a.RunID())
		assert.NotEqual(t, a.RunID(), b.RunID())
		assert.Equal(t, a.RunID(), a.Status().RunID)
	})

	t.Run("Resumes In Given State", func(t *testing.T) {
		agent := newAgent(t, testutils.NewRig(), spire.WithInitialState(domain.KindShop), spire.WithRunID("run-1"))

		assert.Equal(t, domain.KindShop, agent.State())
		assert.Equal(t, "run-1", agent.RunID())
	})
}

func TestAgent_Step(t *testing.T) {
	ctx := context.Background()

	t.Run("Greets Once", func(t *testing.T) {
		rig := testutils.NewRig()
		rig.Reasoner.Answer("好的")
		agent := newAgent(t, rig,
			spire.WithKnowledge(knowledge.New(map[string]string{"initialization": "你好"}, nil)),
		)

		require.NoError(t, agent.Step(ctx))
		require.NoError(t, agent.Step(ctx))

		greetings := 0
		for _, call := range rig.Reasoner.Calls {
			if call.Prompt == "你好" {
				greetings++
				assert.Empty(t, call.History)
			}
		}
		assert.Equal(t, 1, greetings)
	})

	t.Run("Leaves Initialization", func(t *testing.T) {
		var entered []domain.StateKind
		agent := newAgent(t, testutils.NewRig(), spire.WithLifecycleHooks(domain.LifecycleHooks{
			OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
				entered = append(entered, e.State)
			},
		}))

		require.NoError(t, agent.Step(ctx))

		assert.Equal(t, domain.KindMapSelection, agent.State())
		assert.Equal(t, []domain.StateKind{domain.KindMapSelection}, entered)
		assert.EqualValues(t, 1, agent.Status().Ticks)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		agent := newAgent(t, testutils.NewRig())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, agent.Step(cctx), context.Canceled)
	})
}

func TestAgent_History(t *testing.T) {
	agent := newAgent(t, testutils.NewRig())

	msgs, err := agent.History(domain.TopicMap)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = agent.History("shop")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)
}

func TestAgent_Shared(t *testing.T) {
	ctx := context.Background()
	agent := newAgent(t, testutils.NewRig())

	_, err := agent.SharedValue(ctx, "deck")
	assert.ErrorIs(t, err, domain.ErrScratchMiss)

	agent.SetShared(ctx, "deck", []string{"打击"})
	v, err := agent.SharedValue(ctx, "deck")
	require.NoError(t, err)
	assert.Equal(t, []string{"打击"}, v)

	keys, err := agent.SharedKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"deck"}, keys)
}

func TestVersion(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+`, spire.Version)
}
