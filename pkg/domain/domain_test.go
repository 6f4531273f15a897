package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestLifecycleHooks_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("Calls Both In Order", func(t *testing.T) {
		var calls []string
		a := domain.LifecycleHooks{OnChat: func(context.Context, *domain.ChatEvent) { calls = append(calls, "a") }}
		b := domain.LifecycleHooks{OnChat: func(context.Context, *domain.ChatEvent) { calls = append(calls, "b") }}

		a.Merge(b).OnChat(ctx, &domain.ChatEvent{})

		assert.Equal(t, []string{"a", "b"}, calls)
	})

	t.Run("Keeps Single Side", func(t *testing.T) {
		var entered int
		a := domain.LifecycleHooks{OnStateEnter: func(context.Context, *domain.StateEvent) { entered++ }}

		merged := domain.LifecycleHooks{}.Merge(a)
		merged.OnStateEnter(ctx, &domain.StateEvent{})

		assert.Equal(t, 1, entered)
		assert.Nil(t, merged.OnStateLeave)
		assert.Nil(t, merged.OnReasonerCall)
	})
}

func TestSnapshot(t *testing.T) {
	snap := domain.Snapshot{
		"hp":    40,
		"gold":  int64(12),
		"ratio": float64(3),
		"text":  " 7 ",
		"class": "战士",
	}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"hp", 40, true},
		{"gold", 12, true},
		{"ratio", 3, true},
		{"text", 7, true},
		{"class", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := snap.Int(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("IntOr", func(t *testing.T) {
		assert.Equal(t, 40, snap.IntOr("hp", -1))
		assert.Equal(t, -1, snap.IntOr("class", -1))
	})

	t.Run("Summary", func(t *testing.T) {
		assert.Equal(t, "a: 1, b: x", domain.Snapshot{"b": "x", "a": 1}.Summary())
		assert.Equal(t, "无", domain.Snapshot{}.Summary())
	})
}

func TestTopic_Valid(t *testing.T) {
	assert.True(t, domain.TopicMap.Valid())
	assert.True(t, domain.TopicCombat.Valid())
	assert.False(t, domain.Topic("shop").Valid())
}

func TestColor_Near(t *testing.T) {
	red := domain.Color{R: 200, G: 30, B: 30}

	assert.True(t, red.Near(domain.Color{R: 190, G: 40, B: 25}, 10))
	assert.False(t, red.Near(domain.Color{R: 189, G: 30, B: 30}, 10))
	assert.True(t, red.Near(red, 0))
}

func TestRegion(t *testing.T) {
	r := domain.Rect(0.2, 0.4, 0.2, 0.4)

	t.Run("Center", func(t *testing.T) {
		c := r.Center()
		assert.InDelta(t, 0.3, c.X, 1e-9)
		assert.InDelta(t, 0.6, c.Y, 1e-9)
	})

	t.Run("Offset", func(t *testing.T) {
		o := r.Offset(0.1, -0.1)
		assert.InDelta(t, 0.3, o.Left, 1e-9)
		assert.InDelta(t, 0.3, o.Top, 1e-9)
		assert.Equal(t, r.Width, o.Width)
	})

	t.Run("Clamp", func(t *testing.T) {
		c := domain.Rect(-0.1, 0.9, 0.3, 0.3).Clamp()
		assert.InDelta(t, 0, c.Left, 1e-9)
		assert.InDelta(t, 0.2, c.Width, 1e-9)
		assert.InDelta(t, 0.9, c.Top, 1e-9)
		assert.InDelta(t, 0.1, c.Height, 1e-9)
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, r.Valid())
		assert.False(t, domain.Rect(1.2, 0, 0.1, 0.1).Valid())
		assert.False(t, domain.Rect(0.5, 0.5, 0, 0.1).Valid())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "(0.200, 0.400, 0.200, 0.400)", r.String())
	})
}

func TestPoint_Clamp(t *testing.T) {
	assert.Equal(t, domain.Pt(0, 1), domain.Pt(-0.5, 1.5).Clamp(0, 1))
	assert.Equal(t, domain.Pt(0.3, 0.7), domain.Pt(0.3, 0.7).Clamp(0, 1))
}

func TestDisplay_String(t *testing.T) {
	d := domain.Display{Index: 2, X: 1920, Y: 0, Width: 2560, Height: 1440}
	assert.Equal(t, "display 2 (2560x1440 at 1920,0)", d.String())
}
