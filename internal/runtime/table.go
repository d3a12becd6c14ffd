package runtime

import (
	"fmt"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// Effects on the trip request, as reported in the transition table.
const (
	EffectReset     = "reset to defaults"
	EffectFrozen    = "frozen"
	EffectDiscarded = "discarded"
	EffectRetained  = "retained"
)

// NodeID names the position of the wizard as a single node in the transition graph:
// "landing", "reviewing" or "collecting.<step>".
func NodeID(screen domain.Screen, step domain.Step) string {
	if screen == domain.ScreenCollecting {
		return fmt.Sprintf("%s.%s", screen, step)
	}
	return string(screen)
}

// StateNodeID is NodeID for a state.
func StateNodeID(s *domain.State) string {
	if s == nil {
		return NodeID(domain.ScreenLanding, domain.FirstStep)
	}
	return NodeID(s.Screen, s.Step)
}

// Nodes lists every node of the transition graph in flow order.
func Nodes() []string {
	nodes := []string{NodeID(domain.ScreenLanding, 0)}
	for _, step := range domain.Steps() {
		nodes = append(nodes, NodeID(domain.ScreenCollecting, step))
	}
	return append(nodes, NodeID(domain.ScreenReviewing, 0))
}

// Transitions returns the exhaustive table of screen-changing or cursor-moving transitions.
// Events absent for a node are no-ops there; set_field and toggle_interest only edit the
// draft and are listed once per collecting step as self-loops.
func Transitions() []domain.Transition {
	landing := NodeID(domain.ScreenLanding, 0)
	reviewing := NodeID(domain.ScreenReviewing, 0)
	first := NodeID(domain.ScreenCollecting, domain.FirstStep)
	last := NodeID(domain.ScreenCollecting, domain.LastStep)

	table := []domain.Transition{
		{From: landing, Event: domain.EventStart, To: first, Effect: EffectReset},
	}

	for _, step := range domain.Steps() {
		node := NodeID(domain.ScreenCollecting, step)
		if step < domain.LastStep {
			table = append(table, domain.Transition{
				From: node, Event: domain.EventAdvance, To: NodeID(domain.ScreenCollecting, step+1),
				Guard: fmt.Sprintf("step < %d", int(domain.LastStep)),
			})
		}
		if step > domain.FirstStep {
			table = append(table, domain.Transition{
				From: node, Event: domain.EventRetreat, To: NodeID(domain.ScreenCollecting, step-1),
				Guard: fmt.Sprintf("step > %d", int(domain.FirstStep)),
			})
		}
		table = append(table,
			domain.Transition{From: node, Event: domain.EventSetField, To: node, Effect: "clamped write"},
			domain.Transition{From: node, Event: domain.EventToggleInterest, To: node, Effect: "toggle tag"},
		)
	}

	return append(table,
		domain.Transition{
			From: last, Event: domain.EventAdvance, To: reviewing,
			Guard: fmt.Sprintf("step == %d", int(domain.LastStep)), Effect: EffectFrozen,
		},
		domain.Transition{
			From: first, Event: domain.EventRetreat, To: landing,
			Guard: fmt.Sprintf("step == %d", int(domain.FirstStep)), Effect: EffectDiscarded,
		},
		domain.Transition{From: reviewing, Event: domain.EventEdit, To: first, Effect: EffectRetained},
		domain.Transition{From: reviewing, Event: domain.EventRestart, To: landing, Effect: EffectDiscarded},
	)
}

// Allowed lists the events whose preconditions hold on the given screen.
func Allowed(screen domain.Screen) []domain.EventKind {
	switch screen {
	case domain.ScreenLanding:
		return []domain.EventKind{domain.EventStart}
	case domain.ScreenCollecting:
		return []domain.EventKind{
			domain.EventAdvance, domain.EventRetreat,
			domain.EventSetField, domain.EventToggleInterest,
		}
	case domain.ScreenReviewing:
		return []domain.EventKind{domain.EventEdit, domain.EventRestart}
	}
	return nil
}
