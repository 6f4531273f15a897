package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/spire/internal/presentation/graph"
	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestStateDiagram(t *testing.T) {
	tests := []struct {
		name     string
		edges    []states.Edge
		overlay  *graph.Overlay
		contains []string
		absent   []string
	}{
		{
			name:  "Shapes",
			edges: []states.Edge{{From: domain.KindInitialization, To: domain.KindMapSelection}, {From: domain.KindMapSelection, To: domain.KindCombat, Label: "fight"}},
			contains: []string{
				`s_initialization(("initialization"))`,
				`s_map_selection{"map_selection"}`,
				`s_combat[["combat"]]`,
			},
		},
		{
			name:  "Forward And Back Edges",
			edges: []states.Edge{{From: domain.KindMapSelection, To: domain.KindShop, Label: "商店"}, {From: domain.KindShop, To: domain.KindMapSelection}},
			contains: []string{
				`s_map_selection -- "商店" --> s_shop`,
				`s_shop -.-> s_map_selection`,
			},
		},
		{
			name:     "Labelled Self Loop",
			edges:    []states.Edge{{From: domain.KindMapSelection, To: domain.KindMapSelection, Label: `say "hi"`}},
			contains: []string{`s_map_selection -. "say 'hi'" .-> s_map_selection`},
		},
		{
			name:    "Overlay",
			edges:   []states.Edge{{From: domain.KindInitialization, To: domain.KindMapSelection}, {From: domain.KindMapSelection, To: domain.KindShop}},
			overlay: &graph.Overlay{Current: domain.KindShop},
			contains: []string{
				"classDef current",
				"class s_shop current;",
			},
		},
		{
			name:    "Overlay Of Unknown State",
			edges:   []states.Edge{{From: domain.KindInitialization, To: domain.KindMapSelection}},
			overlay: &graph.Overlay{Current: "lobby"},
			absent:  []string{"s_lobby"},
		},
		{
			name:   "No Overlay",
			edges:  []states.Edge{{From: domain.KindInitialization, To: domain.KindMapSelection}},
			absent: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.StateDiagram(tt.edges, tt.overlay)

			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestStateDiagram_FullMachine(t *testing.T) {
	got := graph.StateDiagram(states.Edges(), nil)

	for _, k := range []domain.StateKind{domain.KindChest, domain.KindFairyBlessing, domain.KindUnknown} {
		assert.Contains(t, got, `"`+string(k)+`"`)
	}
	assert.Equal(t, 1, strings.Count(got, `s_combat[["combat"]]`), "nodes are declared once")
}
