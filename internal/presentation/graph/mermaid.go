package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	CurrentNode string
}

type edgeKey struct{ from, to string }

// GenerateMermaid produces a Mermaid flowchart of the wizard from its transition table.
// Shapes follow the screen:
// - Landing: ((Circle))
// - Collecting steps: [/Parallelogram/] (input)
// - Reviewing: [[Subroutine]]
// Transitions that discard the trip request are dotted. Parallel edges between the same
// pair of nodes are merged into one labelled edge.
func GenerateMermaid(transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range runtime.Nodes() {
		opener, closer := "[", "]"
		switch {
		case node == string(domain.ScreenLanding):
			opener, closer = "((", "))"
		case node == string(domain.ScreenReviewing):
			opener, closer = "[[", "]]"
		case strings.HasPrefix(node, string(domain.ScreenCollecting)+"."):
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node), opener, node, closer)
	}

	var order []edgeKey
	labels := make(map[edgeKey][]string)
	dotted := make(map[edgeKey]bool)
	for _, t := range transitions {
		key := edgeKey{t.From, t.To}
		if _, seen := labels[key]; !seen {
			order = append(order, key)
		}
		label := string(t.Event)
		if t.Guard != "" {
			label = fmt.Sprintf("%s [%s]", label, t.Guard)
		}
		labels[key] = append(labels[key], label)
		if t.Effect == runtime.EffectDiscarded {
			dotted[key] = true
		}
	}

	for _, key := range order {
		label := strings.ReplaceAll(strings.Join(labels[key], " / "), "\"", "'")
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if dotted[key] {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(key.from), arrow, sanitizeMermaidID(key.to))
	}

	if overlay != nil && overlay.CurrentNode != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
