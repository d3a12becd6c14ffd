package runner

import (
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/session"
)

// Renderer produces the presentation view of a state.
type Renderer interface {
	Render(state *domain.State) domain.View
}

// Response combines state and view for rich clients (JSON lines, HTTP, MCP).
// It encapsulates the common pattern of: Dispatch -> Render -> Return.
type Response struct {
	State     *domain.State     `json:"state"`
	View      domain.View       `json:"view"`
	Outcome   domain.Outcome    `json:"outcome,omitempty"`
	Diff      *domain.StateDiff `json:"diff,omitempty"`
	Itinerary *domain.Itinerary `json:"itinerary,omitempty"`
}

// NewResponse renders the state into a Response.
func NewResponse(r Renderer, state *domain.State, outcome domain.Outcome) *Response {
	return &Response{
		State:   state,
		View:    r.Render(state),
		Outcome: outcome,
	}
}

// FromUpdate renders the state produced by a session update, attaching its diff.
func FromUpdate(r Renderer, u *session.Update) *Response {
	resp := NewResponse(r, u.After, u.Outcome)
	resp.Diff = u.Diff()
	return resp
}
