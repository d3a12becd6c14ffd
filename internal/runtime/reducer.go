package runtime

import (
	"strings"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// Apply is the wizard's pure transition function.
//
// It never mutates s and never fails: an event whose precondition does not hold
// returns s itself with OutcomeIgnored. A nil state is treated as a fresh Landing state.
// Revision is bumped on every outcome that changes the state; timestamps are left
// to the caller.
func Apply(s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	if s == nil {
		s = domain.NewState("")
	}

	var (
		next    *domain.State
		outcome domain.Outcome
	)
	switch s.Screen {
	case domain.ScreenLanding:
		next, outcome = applyLanding(s, ev)
	case domain.ScreenCollecting:
		next, outcome = applyCollecting(s, ev)
	case domain.ScreenReviewing:
		next, outcome = applyReviewing(s, ev)
	default:
		return s, domain.OutcomeIgnored
	}

	if !outcome.Changed() {
		return s, outcome
	}
	next.Revision = s.Revision + 1
	return next, outcome
}

func applyLanding(s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	if ev.Kind != domain.EventStart {
		return s, domain.OutcomeIgnored
	}
	next := s.Snapshot()
	next.Screen = domain.ScreenCollecting
	next.Step = domain.FirstStep
	next.Draft = domain.DefaultTripRequest()
	next.Submitted = nil
	return next, domain.OutcomeStarted
}

func applyReviewing(s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	switch ev.Kind {
	case domain.EventEdit:
		next := s.Snapshot()
		next.Screen = domain.ScreenCollecting
		next.Step = domain.FirstStep
		next.Draft = s.Submitted.Clone()
		if next.Draft == nil {
			next.Draft = domain.DefaultTripRequest()
		}
		next.Submitted = nil
		return next, domain.OutcomeEdited
	case domain.EventRestart:
		return discard(s), domain.OutcomeRestarted
	}
	return s, domain.OutcomeIgnored
}

func applyCollecting(s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	switch ev.Kind {
	case domain.EventAdvance:
		next := s.Snapshot()
		if s.Step < domain.LastStep {
			next.Step = max(s.Step, domain.FirstStep) + 1
			return next, domain.OutcomeAdvanced
		}
		next.Screen = domain.ScreenReviewing
		next.Step = domain.FirstStep
		next.Submitted = draftOf(s)
		next.Draft = nil
		return next, domain.OutcomeSubmitted

	case domain.EventRetreat:
		if s.Step > domain.FirstStep {
			next := s.Snapshot()
			next.Step = min(s.Step, domain.LastStep) - 1
			return next, domain.OutcomeRetreated
		}
		return discard(s), domain.OutcomeExited

	case domain.EventSetField:
		return setField(s, ev)

	case domain.EventToggleInterest:
		tag := strings.TrimSpace(ev.Tag)
		if tag == "" {
			return s, domain.OutcomeIgnored
		}
		next := s.Snapshot()
		next.Draft = draftOf(s)
		next.Draft.Interests = toggle(next.Draft.Interests, tag)
		return next, domain.OutcomeToggled
	}
	return s, domain.OutcomeIgnored
}

func setField(s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	draft := draftOf(s)
	switch ev.Field {
	case domain.FieldDestination:
		draft.Destination = ev.Text
	case domain.FieldStartDate:
		draft.StartDate = strings.TrimSpace(ev.Text)
	case domain.FieldEndDate:
		draft.EndDate = strings.TrimSpace(ev.Text)
	case domain.FieldBudget:
		draft.BudgetPerPerson = domain.ClampBudget(ev.Number)
	case domain.FieldGroupSize:
		draft.GroupSize = domain.ClampGroupSize(ev.Number)
	default:
		return s, domain.OutcomeIgnored
	}

	if s.Draft != nil && s.Draft.Equal(draft) {
		return s, domain.OutcomeUnchanged
	}
	next := s.Snapshot()
	next.Draft = draft
	return next, domain.OutcomeUpdated
}

// discard returns to Landing, dropping every request.
func discard(s *domain.State) *domain.State {
	next := s.Snapshot()
	next.Screen = domain.ScreenLanding
	next.Step = domain.FirstStep
	next.Draft = nil
	next.Submitted = nil
	return next
}

// draftOf returns a private copy of the draft, healing a missing one with defaults.
func draftOf(s *domain.State) *domain.TripRequest {
	if s.Draft == nil {
		return domain.DefaultTripRequest()
	}
	return s.Draft.Clone()
}

func toggle(set []string, tag string) []string {
	for i, v := range set {
		if v == tag {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, tag)
}
