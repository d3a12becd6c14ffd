package domain

import (
	"fmt"
	"strings"
)

// EventKind identifies a discrete user action emitted by a renderer.
type EventKind string

const (
	EventStart          EventKind = "start"
	EventAdvance        EventKind = "advance"
	EventRetreat        EventKind = "retreat"
	EventSetField       EventKind = "set_field"
	EventToggleInterest EventKind = "toggle_interest"
	EventEdit           EventKind = "edit"
	EventRestart        EventKind = "restart"
)

// EventKinds lists the whole wizard vocabulary.
func EventKinds() []EventKind {
	return []EventKind{
		EventStart, EventAdvance, EventRetreat, EventSetField,
		EventToggleInterest, EventEdit, EventRestart,
	}
}

// Field names a writable TripRequest field.
type Field string

const (
	FieldDestination Field = "destination"
	FieldStartDate   Field = "start_date"
	FieldEndDate     Field = "end_date"
	FieldBudget      Field = "budget_per_person"
	FieldGroupSize   Field = "group_size"
)

// Fields lists every writable field.
func Fields() []Field {
	return []Field{FieldDestination, FieldStartDate, FieldEndDate, FieldBudget, FieldGroupSize}
}

// Numeric reports whether the field carries an integer value.
func (f Field) Numeric() bool {
	return f == FieldBudget || f == FieldGroupSize
}

// ParseField resolves a field name, accepting a few short aliases used by the CLI.
func ParseField(v string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "destination", "dest", "to":
		return FieldDestination, nil
	case "start_date", "start", "from":
		return FieldStartDate, nil
	case "end_date", "end", "until":
		return FieldEndDate, nil
	case "budget_per_person", "budget":
		return FieldBudget, nil
	case "group_size", "group", "size":
		return FieldGroupSize, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, v)
}

// Event is a typed transition request. Only the payload fields relevant to Kind are read:
// Field with Text or Number for set_field, Tag for toggle_interest.
type Event struct {
	Kind   EventKind `json:"kind"`
	Field  Field     `json:"field,omitempty"`
	Text   string    `json:"text,omitempty"`
	Number int       `json:"number,omitempty"`
	Tag    string    `json:"tag,omitempty"`
}

func Start() Event   { return Event{Kind: EventStart} }
func Advance() Event { return Event{Kind: EventAdvance} }
func Retreat() Event { return Event{Kind: EventRetreat} }
func Edit() Event    { return Event{Kind: EventEdit} }
func Restart() Event { return Event{Kind: EventRestart} }

// SetText builds a set_field event for a text or date field.
func SetText(field Field, value string) Event {
	return Event{Kind: EventSetField, Field: field, Text: value}
}

// SetNumber builds a set_field event for a numeric field.
func SetNumber(field Field, value int) Event {
	return Event{Kind: EventSetField, Field: field, Number: value}
}

// ToggleInterest builds a toggle_interest event.
func ToggleInterest(tag string) Event {
	return Event{Kind: EventToggleInterest, Tag: tag}
}

// Validate checks the event shape at a host boundary (HTTP, MCP, CLI).
// The reducer never needs it: it treats anything it cannot use as a no-op.
func (e Event) Validate() error {
	switch e.Kind {
	case EventStart, EventAdvance, EventRetreat, EventEdit, EventRestart:
		return nil
	case EventToggleInterest:
		if strings.TrimSpace(e.Tag) == "" {
			return fmt.Errorf("%w: toggle_interest requires a tag", ErrInvalidValue)
		}
		return nil
	case EventSetField:
		switch e.Field {
		case FieldDestination, FieldBudget, FieldGroupSize:
			return nil
		case FieldStartDate, FieldEndDate:
			_, err := ParseDate(e.Text)
			return err
		}
		return fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
}

func (e Event) String() string {
	switch e.Kind {
	case EventSetField:
		if e.Field.Numeric() {
			return fmt.Sprintf("%s(%s=%d)", e.Kind, e.Field, e.Number)
		}
		return fmt.Sprintf("%s(%s=%q)", e.Kind, e.Field, e.Text)
	case EventToggleInterest:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Tag)
	}
	return string(e.Kind)
}

// Outcome is the tagged result of applying an Event.
type Outcome string

const (
	// OutcomeIgnored means the event's precondition was not met; the state is unchanged.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeUnchanged means the event was legal but left the request clamp-equal.
	OutcomeUnchanged Outcome = "unchanged"

	OutcomeStarted   Outcome = "started"
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeSubmitted Outcome = "submitted"
	OutcomeRetreated Outcome = "retreated"
	OutcomeExited    Outcome = "exited"
	OutcomeUpdated   Outcome = "updated"
	OutcomeToggled   Outcome = "toggled"
	OutcomeEdited    Outcome = "edited"
	OutcomeRestarted Outcome = "restarted"
)

// Changed reports whether the outcome produced a new state.
func (o Outcome) Changed() bool {
	return o != OutcomeIgnored && o != OutcomeUnchanged
}
