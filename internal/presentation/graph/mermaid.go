package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
)

// Overlay marks live agent data on the diagram.
type Overlay struct {
	Current domain.StateKind
}

// StateDiagram produces a Mermaid flowchart of the state machine.
// Shapes:
// - Initialization: ((Circle))
// - Map selection: {Rhombus}, it dispatches to every screen
// - Combat: [[Subroutine]]
// - Other screens: [Rectangle]
// Self-loops and edges back to the map are dotted.
func StateDiagram(edges []states.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.StateKind]bool)
	declare := func(k domain.StateKind) {
		if declared[k] {
			return
		}
		declared[k] = true
		opener, closer := "[", "]"
		switch k {
		case domain.KindInitialization:
			opener, closer = "((", "))"
		case domain.KindMapSelection:
			opener, closer = "{", "}"
		case domain.KindCombat:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(k), opener, k, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}
	for _, e := range edges {
		back := e.To == domain.KindMapSelection || e.From == e.To
		arrow := "-->"
		if back {
			arrow = "-.->"
		}
		if e.Label != "" {
			label := strings.ReplaceAll(e.Label, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if back {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(e.From), arrow, nodeID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		if overlay.Current != "" && declared[overlay.Current] {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

// nodeID keeps Mermaid identifiers free of reserved words like "end".
func nodeID(k domain.StateKind) string {
	return "s_" + strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(string(k))
}
