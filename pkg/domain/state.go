package domain

import "time"

// State represents the current snapshot of a wizard session.
type State struct {
	// SessionID identifies the session this state belongs to.
	SessionID string `json:"session_id"`

	// Screen is the active top-level screen.
	Screen Screen `json:"screen"`

	// Step is the sub-step cursor. Only meaningful while Screen == ScreenCollecting.
	Step Step `json:"step"`

	// Draft is the in-progress request, mutated while collecting.
	Draft *TripRequest `json:"draft,omitempty"`

	// Submitted is the frozen request handed to the Reviewing screen.
	// It is nil on every other screen, so no partial request is ever exposed to results.
	Submitted *TripRequest `json:"submitted,omitempty"`

	// Revision counts events that changed the state.
	Revision int `json:"revision"`

	// UpdatedAt is stamped by the host engine, never by the reducer.
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Sealed carries the encrypted trip requests of an at-rest envelope.
	// It is only ever set on states held by a store, never on states handed to the engine.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean state on the Landing screen.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Screen:    ScreenLanding,
	}
}

// Request returns the trip request visible on the current screen:
// the draft while collecting, the frozen request while reviewing, nil on landing.
func (s *State) Request() *TripRequest {
	switch s.Screen {
	case ScreenCollecting:
		return s.Draft
	case ScreenReviewing:
		return s.Submitted
	}
	return nil
}

// Snapshot returns a deep copy safe to hand to renderers.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Draft = s.Draft.Clone()
	c.Submitted = s.Submitted.Clone()
	return &c
}
