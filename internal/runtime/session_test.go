package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/internal/testutils"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_TransitionTo(t *testing.T) {
	rig := testutils.NewRig()
	start := &testutils.StubState{K: domain.KindInitialization}
	next := &testutils.StubState{K: domain.KindMapSelection}

	var entered, left []domain.StateKind
	hooks := domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) { entered = append(entered, e.State) },
		OnStateLeave: func(ctx context.Context, e *domain.StateEvent) { left = append(left, e.State) },
	}
	s := rig.Session(start, nil, nil, runtime.WithLifecycleHooks(hooks), runtime.WithRunID("run-1"))

	require.NoError(t, s.TransitionTo(context.Background(), next))

	assert.Same(t, next, s.State())
	assert.Equal(t, []domain.StateKind{domain.KindMapSelection}, entered)
	assert.Equal(t, []domain.StateKind{domain.KindInitialization}, left)
	assert.Equal(t, domain.KindMapSelection, s.Status().State)
	assert.Equal(t, "run-1", s.Status().RunID)
}

func TestSession_Step(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates To Active State", func(t *testing.T) {
		st := &testutils.StubState{K: domain.KindCombat}
		s := testutils.NewRig().Session(st, nil, nil)

		require.NoError(t, s.Step(ctx))
		require.NoError(t, s.Step(ctx))

		assert.Equal(t, 2, st.Handled)
		assert.Equal(t, uint64(2), s.Status().Ticks)
	})

	t.Run("At Most One Transition Per Step", func(t *testing.T) {
		first := &testutils.StubState{K: domain.KindShop}
		second := &testutils.StubState{K: domain.KindChest}
		var secondErr error
		st := &testutils.StubState{K: domain.KindMapSelection, Fn: func(ctx context.Context, s *runtime.Session) error {
			require.NoError(t, s.TransitionTo(ctx, first))
			secondErr = s.TransitionTo(ctx, second)
			return nil
		}}
		s := testutils.NewRig().Session(st, nil, nil)

		require.NoError(t, s.Step(ctx))

		assert.ErrorIs(t, secondErr, domain.ErrAlreadyTransitioned)
		assert.Same(t, first, s.State())
	})

	t.Run("Same Kind Transition Is Legal", func(t *testing.T) {
		again := &testutils.StubState{K: domain.KindMapSelection}
		st := &testutils.StubState{K: domain.KindMapSelection, Fn: func(ctx context.Context, s *runtime.Session) error {
			return s.TransitionTo(ctx, again)
		}}
		s := testutils.NewRig().Session(st, nil, nil)

		require.NoError(t, s.Step(ctx))
		assert.Same(t, again, s.State())
	})

	t.Run("Errors Are Contained", func(t *testing.T) {
		boom := errors.New("ocr glitch")
		st := &testutils.StubState{K: domain.KindCombat, Fn: func(ctx context.Context, s *runtime.Session) error {
			return boom
		}}
		var faults []*domain.FaultEvent
		s := testutils.NewRig().Session(st, nil, nil, runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnStepFault: func(ctx context.Context, e *domain.FaultEvent) { faults = append(faults, e) },
		}))

		require.NoError(t, s.Step(ctx))
		require.NoError(t, s.Step(ctx))

		assert.Same(t, st, s.State(), "failing state stays active and is retried")
		assert.Equal(t, 2, st.Handled)
		status := s.Status()
		assert.Equal(t, uint64(2), status.Faults)
		assert.Contains(t, status.LastFault, "ocr glitch")
		require.Len(t, faults, 2)
		assert.ErrorIs(t, faults[0].Err, boom)
		assert.False(t, faults[0].Panic)
	})

	t.Run("Panics Are Contained", func(t *testing.T) {
		st := &testutils.StubState{K: domain.KindShop, Fn: func(ctx context.Context, s *runtime.Session) error {
			var items []string
			_ = items[3]
			return nil
		}}
		var fault *domain.FaultEvent
		s := testutils.NewRig().Session(st, nil, nil, runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnStepFault: func(ctx context.Context, e *domain.FaultEvent) { fault = e },
		}))

		require.NotPanics(t, func() { require.NoError(t, s.Step(ctx)) })

		require.NotNil(t, fault)
		assert.True(t, fault.Panic)
		assert.ErrorIs(t, fault.Err, runtime.ErrStatePanic)
		assert.Equal(t, uint64(1), s.Status().Faults)
	})

	t.Run("Cancelled Context Stops", func(t *testing.T) {
		st := &testutils.StubState{K: domain.KindCombat}
		s := testutils.NewRig().Session(st, nil, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, s.Step(cctx), context.Canceled)
		assert.Zero(t, st.Handled)
	})
}

func TestSession_SelectedNodeAndScratch(t *testing.T) {
	ctx := context.Background()
	s := testutils.NewRig().Session(&testutils.StubState{K: domain.KindMapSelection}, nil, nil)

	_, ok := s.SelectedNode()
	assert.False(t, ok)

	s.SetSelectedNode(domain.SelectedNode{Index: 2, Text: "商店"})
	s.SetSelectedNode(domain.SelectedNode{Index: 3, Text: "未知事件"})
	node, ok := s.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, 3, node.Index)
	assert.Equal(t, 3, s.Status().SelectedNode.Index)

	s.SetShared(ctx, "gold", 120)
	s.SetShared(ctx, "gold", 80)
	assert.Equal(t, 80, s.Shared(ctx, "gold", 0))
	assert.Equal(t, "none", s.Shared(ctx, "relic", "none"))

	_, err := s.Lookup(ctx, "relic")
	assert.ErrorIs(t, err, domain.ErrScratchMiss)
}
