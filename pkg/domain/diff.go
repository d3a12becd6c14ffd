package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Screen *Screen `json:"screen,omitempty"`
	Step   *Step   `json:"step,omitempty"`

	// Draft carries the full new draft when any of its fields changed.
	// DraftCleared is set when the draft was discarded.
	Draft        *TripRequest `json:"draft,omitempty"`
	DraftCleared bool         `json:"draft_cleared,omitempty"`

	// Submitted carries the frozen request when one was produced.
	// SubmittedCleared is set when the frozen request was dropped (edit or restart).
	Submitted        *TripRequest `json:"submitted,omitempty"`
	SubmittedCleared bool         `json:"submitted_cleared,omitempty"`

	Revision *int `json:"revision,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Screen != newState.Screen {
		diff.Screen = &newState.Screen
	}
	if oldState == nil || oldState.Step != newState.Step {
		diff.Step = &newState.Step
	}
	if oldState == nil || oldState.Revision != newState.Revision {
		diff.Revision = &newState.Revision
	}

	var oldDraft, oldSubmitted *TripRequest
	if oldState != nil {
		oldDraft, oldSubmitted = oldState.Draft, oldState.Submitted
	}
	diff.Draft, diff.DraftCleared = diffRequest(oldDraft, newState.Draft)
	diff.Submitted, diff.SubmittedCleared = diffRequest(oldSubmitted, newState.Submitted)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffRequest(old, new *TripRequest) (*TripRequest, bool) {
	switch {
	case new == nil && old != nil:
		return nil, true
	case new == nil:
		return nil, false
	case old == nil || !old.Equal(new):
		return new.Clone(), false
	}
	return nil, false
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Screen == nil &&
		d.Step == nil &&
		d.Revision == nil &&
		d.Draft == nil &&
		!d.DraftCleared &&
		d.Submitted == nil &&
		!d.SubmittedCleared
}
