package domain

// Transition is one row of the wizard's transition table.
type Transition struct {
	From  string    `json:"from" yaml:"from"`
	Event EventKind `json:"event" yaml:"event"`
	To    string    `json:"to" yaml:"to"`

	// Guard is a human-readable precondition on the cursor, e.g. "step < 4".
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`

	// Effect describes what happens to the trip request, e.g. "frozen" or "discarded".
	Effect string `json:"effect,omitempty" yaml:"effect,omitempty"`
}
