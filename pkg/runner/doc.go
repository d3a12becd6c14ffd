/*
Package runner implements the interactive loop and I/O orchestration for the wizard engine.

It is the bridge between the engine and a terminal or a JSON-lines pipe. The runner parses
text commands into domain events, asks before discarding a trip request, persists the
session after every change and prints the itinerary once the request is submitted.

# Key Components

  - Runner: the loop (render, read, parse, dispatch, save).
  - IOHandler: decouples how the runner talks to the user (TextHandler, JSONHandler).
  - ParseCommand: the text command grammar ("set budget 75000", "toggle food").
  - EventInterceptor: middleware that can veto events before dispatch.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithStore(store),
		runner.WithSessionID("trip-1"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
