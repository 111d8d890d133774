// Package validator checks graphs for structural mistakes before they run.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// ValidateGraph checks for broken links, dangling steps and unreachable steps
// by crawling the graph from its start step.
func ValidateGraph(g *domain.Graph) error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}
	if g.Start == "" {
		return fmt.Errorf("graph %q has no start step", g.Name)
	}
	if _, ok := g.Steps[g.Start]; !ok {
		return fmt.Errorf("start step '%s' not found: %w", g.Start, domain.ErrStepNotFound)
	}

	var problems []string
	visited := make(map[string]bool)
	reachesEnd := false
	queue := []string{g.Start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if g.Steps[current] == nil {
			problems = append(problems, fmt.Sprintf("Step '%s' has no handler", current))
		}

		edge, ok := g.Edges[current]
		if !ok {
			problems = append(problems, fmt.Sprintf("Step '%s' has no outgoing edge", current))
			continue
		}
		if edge.Conditional() && len(edge.Routes) == 0 {
			problems = append(problems, fmt.Sprintf("Step '%s' routes nowhere", current))
		}

		targets := edge.Targets()
		sort.Strings(targets)
		for _, target := range targets {
			switch {
			case target == domain.End:
				reachesEnd = true
			case target == "":
				problems = append(problems, fmt.Sprintf("Step '%s' has an empty edge target", current))
			default:
				if _, exists := g.Steps[target]; !exists {
					problems = append(problems, fmt.Sprintf("Missing step: '%s' (from '%s')", target, current))
					continue
				}
				if !visited[target] {
					queue = append(queue, target)
				}
			}
		}
	}

	names := make([]string, 0, len(g.Steps))
	for name := range g.Steps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] {
			problems = append(problems, fmt.Sprintf("Unreachable step: '%s'", name))
		}
	}

	if !reachesEnd {
		problems = append(problems, fmt.Sprintf("No path reaches %s", domain.End))
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}
