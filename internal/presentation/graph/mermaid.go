package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// Synthetic node IDs for the entry and exit points.
const (
	startID = "__start__"
	endID   = "__end__"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []string
	CurrentStep  string
}

// GenerateMermaid produces a Mermaid flowchart from a graph.
// Entry and exit are drawn as circles, steps as rectangles, and routed edges
// carry the router label. It also applies overlay styles if provided.
func GenerateMermaid(g *domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"start\"))\n", startID)

	for _, name := range stepOrder(g) {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(name), name)
	}
	fmt.Fprintf(&sb, "    %s((\"end\"))\n", endID)

	fmt.Fprintf(&sb, "    %s --> %s\n", startID, sanitizeMermaidID(g.Start))
	for _, name := range stepOrder(g) {
		from := sanitizeMermaidID(name)
		edge, ok := g.Edges[name]
		if !ok {
			// A step without edge ends the run.
			fmt.Fprintf(&sb, "    %s --> %s\n", from, endID)
			continue
		}
		if !edge.Conditional() {
			fmt.Fprintf(&sb, "    %s --> %s\n", from, target(edge.To))
			continue
		}
		labels := make([]string, 0, len(edge.Routes))
		for label := range edge.Routes {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			safeLabel := strings.ReplaceAll(label, "\"", "'")
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", from, safeLabel, target(edge.Routes[label]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedSteps {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

// VisitedSteps infers which of the built-in steps a thread went through:
// assistant replies mark the start step, tool results mark every step that
// routes nowhere but back to the start.
func VisitedSteps(g *domain.Graph, state *domain.State) []string {
	var sawAssistant, sawTool bool
	for _, m := range state.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			sawAssistant = true
		case domain.RoleTool:
			sawTool = true
		}
	}

	var out []string
	for _, name := range stepOrder(g) {
		if name == g.Start {
			if sawAssistant {
				out = append(out, name)
			}
			continue
		}
		if e, ok := g.Edges[name]; ok && !e.Conditional() && e.To == g.Start && sawTool {
			out = append(out, name)
		}
	}
	return out
}

func stepOrder(g *domain.Graph) []string {
	if len(g.Order) > 0 {
		return g.Order
	}
	names := make([]string, 0, len(g.Steps))
	for name := range g.Steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func target(to string) string {
	if to == domain.End {
		return endID
	}
	return sanitizeMermaidID(to)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
