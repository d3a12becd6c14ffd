package runtime_test

import (
	"testing"

	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(kind domain.EventKind) domain.Event {
	switch kind {
	case domain.EventSetField:
		return domain.SetText(domain.FieldDestination, "Somewhere")
	case domain.EventToggleInterest:
		return domain.ToggleInterest("food")
	}
	return domain.Event{Kind: kind}
}

// TestTransitions_MatchApply checks the table against the reducer for every node and event:
// listed pairs must land on the listed node, unlisted pairs must be ignored.
func TestTransitions_MatchApply(t *testing.T) {
	states := map[string]*domain.State{
		"landing":   domain.NewState("t"),
		"reviewing": reviewing(t),
	}
	for _, step := range domain.Steps() {
		states[runtime.NodeID(domain.ScreenCollecting, step)] = collectingAt(t, step)
	}

	rows := make(map[string]domain.Transition)
	for _, tr := range runtime.Transitions() {
		key := tr.From + "|" + string(tr.Event)
		_, dup := rows[key]
		require.False(t, dup, "duplicate row %s", key)
		rows[key] = tr
	}

	require.ElementsMatch(t, runtime.Nodes(), keys(states))

	for _, node := range runtime.Nodes() {
		for _, kind := range domain.EventKinds() {
			t.Run(node+"/"+string(kind), func(t *testing.T) {
				next, outcome := runtime.Apply(states[node], sampleEvent(kind))

				row, listed := rows[node+"|"+string(kind)]
				if !listed {
					assert.Equal(t, domain.OutcomeIgnored, outcome)
					return
				}
				assert.True(t, outcome.Changed(), "listed transition produced %s", outcome)
				assert.Equal(t, row.To, runtime.StateNodeID(next))
			})
		}
	}
}

func TestTransitions_EveryNodeReachable(t *testing.T) {
	reached := map[string]bool{"landing": true}
	for _, tr := range runtime.Transitions() {
		reached[tr.To] = true
	}
	for _, n := range runtime.Nodes() {
		assert.True(t, reached[n], "node %s unreachable", n)
	}
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []domain.EventKind{domain.EventStart}, runtime.Allowed(domain.ScreenLanding))
	assert.Equal(t, []domain.EventKind{domain.EventEdit, domain.EventRestart}, runtime.Allowed(domain.ScreenReviewing))
	assert.Len(t, runtime.Allowed(domain.ScreenCollecting), 4)
	assert.Nil(t, runtime.Allowed("bogus"))
}

func keys(m map[string]*domain.State) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
