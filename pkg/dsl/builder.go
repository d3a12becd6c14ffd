package dsl

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// ErrScriptRejected is returned by Play when the engine ignores a scripted event,
// which means the session was not where the script expected it to be.
var ErrScriptRejected = errors.New("scripted event was ignored")

// Dispatcher applies one event to a state. *wayfarer.Engine satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, state *domain.State, ev domain.Event) (*domain.State, domain.Outcome, error)
}

// TripBuilder collects the answers for each wizard step.
// Steps left unset are still advanced through, keeping the draft defaults.
type TripBuilder struct {
	destination string
	start, end  string
	budget      *int
	group       *int
	likes       []string
	draftOnly   bool
}

// NewTrip creates an empty trip script.
func NewTrip() *TripBuilder {
	return &TripBuilder{}
}

// To sets the destination.
func (b *TripBuilder) To(destination string) *TripBuilder {
	b.destination = destination
	return b
}

// Dates sets the travel window as YYYY-MM-DD strings.
func (b *TripBuilder) Dates(start, end string) *TripBuilder {
	b.start, b.end = start, end
	return b
}

// Budget sets the per-person budget in rupees.
func (b *TripBuilder) Budget(rupees int) *TripBuilder {
	b.budget = &rupees
	return b
}

// Group sets the number of travelers.
func (b *TripBuilder) Group(size int) *TripBuilder {
	b.group = &size
	return b
}

// Likes adds interest tags, toggled in order on the last step.
func (b *TripBuilder) Likes(tags ...string) *TripBuilder {
	b.likes = append(b.likes, tags...)
	return b
}

// Draft stops the script on the interests step instead of submitting.
func (b *TripBuilder) Draft() *TripBuilder {
	b.draftOnly = true
	return b
}

// Events returns the script as the event sequence a renderer would emit from Landing.
func (b *TripBuilder) Events() []domain.Event {
	events := []domain.Event{domain.Start()}

	if b.destination != "" {
		events = append(events, domain.SetText(domain.FieldDestination, b.destination))
	}
	events = append(events, domain.Advance())

	if b.start != "" {
		events = append(events, domain.SetText(domain.FieldStartDate, b.start))
	}
	if b.end != "" {
		events = append(events, domain.SetText(domain.FieldEndDate, b.end))
	}
	events = append(events, domain.Advance())

	if b.budget != nil {
		events = append(events, domain.SetNumber(domain.FieldBudget, *b.budget))
	}
	events = append(events, domain.Advance())

	if b.group != nil {
		events = append(events, domain.SetNumber(domain.FieldGroupSize, *b.group))
	}
	events = append(events, domain.Advance())

	for _, tag := range b.likes {
		events = append(events, domain.ToggleInterest(tag))
	}
	if !b.draftOnly {
		events = append(events, domain.Advance())
	}
	return events
}

// Play dispatches the script against d, starting from state, and returns the final state.
// It stops at the first dispatch error or ignored event.
func (b *TripBuilder) Play(ctx context.Context, d Dispatcher, state *domain.State) (*domain.State, error) {
	for i, ev := range b.Events() {
		next, outcome, err := d.Dispatch(ctx, state, ev)
		if err != nil {
			return state, fmt.Errorf("event %d (%s): %w", i, ev, err)
		}
		if outcome == domain.OutcomeIgnored {
			return state, fmt.Errorf("%w: event %d (%s)", ErrScriptRejected, i, ev)
		}
		state = next
	}
	return state, nil
}
