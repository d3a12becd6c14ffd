package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// ValidateTable crawls the transition table from startNodeID and reports dead links,
// unreachable nodes, nodes with no way out and events that lead to two different places.
func ValidateTable(nodes []string, transitions []domain.Transition, startNodeID string) error {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	var errors []string
	if !known[startNodeID] {
		errors = append(errors, fmt.Sprintf("Start node '%s' is not a node", startNodeID))
	}

	edges := make(map[string][]string)
	exits := make(map[string]bool)
	targets := make(map[string]string)
	for _, t := range transitions {
		if !known[t.From] {
			errors = append(errors, fmt.Sprintf("Transition from unknown node '%s' (%s)", t.From, t.Event))
			continue
		}
		if !known[t.To] {
			errors = append(errors, fmt.Sprintf("Missing node: '%s' (from '%s' on %s)", t.To, t.From, t.Event))
			continue
		}

		key := t.From + "/" + string(t.Event)
		if prev, ok := targets[key]; ok && prev != t.To && t.Guard == "" {
			errors = append(errors, fmt.Sprintf("Ambiguous event %s on '%s': '%s' or '%s'", t.Event, t.From, prev, t.To))
		}
		targets[key] = t.To

		edges[t.From] = append(edges[t.From], t.To)
		if t.To != t.From {
			exits[t.From] = true
		}
	}

	visited := make(map[string]bool)
	queue := []string{startNodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	for _, n := range nodes {
		if !visited[n] {
			errors = append(errors, fmt.Sprintf("Unreachable node: '%s'", n))
		}
		if !exits[n] {
			errors = append(errors, fmt.Sprintf("Dead end: '%s' has no transition to another node", n))
		}
	}

	if len(errors) > 0 {
		slices.Sort(errors)
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
