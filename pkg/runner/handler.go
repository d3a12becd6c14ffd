package runner

import (
	"context"
)

// IOHandler abstracts how the Runner talks to its frontend.
type IOHandler interface {
	// Output presents the current state (and, when set, the generated itinerary).
	Output(ctx context.Context, resp *Response) error

	// Input blocks until a line of input is available or ctx is done.
	// It returns io.EOF when the input stream is closed.
	Input(ctx context.Context) (string, error)

	// SystemOutput sends meta messages (errors, hints, help) distinct from the wizard content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is printed (e.g. into ANSI for a TTY).
type ContentRenderer func(string) (string, error)
