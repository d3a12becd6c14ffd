package domain

// Option is a selectable choice offered on a step (interest tags, known destinations).
type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// View is the read-only presentation of a State, produced for renderers.
type View struct {
	SessionID string `json:"session_id"`
	Screen    Screen `json:"screen"`

	// Step fields are only set while collecting.
	Step      *Step  `json:"step,omitempty"`
	StepName  string `json:"step_name,omitempty"`
	StepTitle string `json:"step_title,omitempty"`
	Progress  int    `json:"progress"`

	// Forward is the label of the single forward affordance ("Next" or "Generate Itinerary").
	Forward string `json:"forward,omitempty"`

	// Highlight is the known destination matching the free-form entry, if any.
	Highlight string `json:"highlight,omitempty"`

	Options []Option     `json:"options,omitempty"`
	Request *TripRequest `json:"request,omitempty"`

	// Allowed lists the events whose preconditions currently hold.
	Allowed []EventKind `json:"allowed"`

	// Markdown is a ready-to-print rendering for text frontends.
	Markdown string `json:"markdown,omitempty"`
}
