/*
Package wayfarer is an embeddable trip-planning wizard engine.

The core is a pure reducer over a small state machine: a Landing screen, a Collecting
screen with five ordered sub-steps (destination, dates, budget, group, interests) and a
Reviewing screen that holds the frozen trip request. Hosts own the state, feed typed
events into the engine and render the read-only view it returns.

# Concept

Every user action is a domain.Event. Dispatch applies it and reports a tagged
domain.Outcome. Events whose precondition does not hold are no-ops reported as
domain.OutcomeIgnored, never errors. Out-of-range numbers are clamped. The request only
becomes visible to results consumers after the final forward action submits it.

	Landing --start--> Collecting[0]
	Collecting[i<4] --advance--> Collecting[i+1]
	Collecting[4] --advance--> Reviewing (frozen)
	Collecting[i>0] --retreat--> Collecting[i-1]
	Collecting[0] --retreat--> Landing (discarded)
	Reviewing --edit--> Collecting[0] (retained)
	Reviewing --restart--> Landing (discarded)

# Usage

	eng, err := wayfarer.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := eng.Start("session-123")
	state, _, _ = eng.Dispatch(ctx, state, domain.Start())
	state, _, _ = eng.Dispatch(ctx, state, domain.SetText(domain.FieldDestination, "Goa"))

	view := eng.Render(state)
	fmt.Println(view.Markdown)

The session Manager (pkg/session) serializes events per session and persists state
through any ports.StateStore: memory, file or Redis. The HTTP and MCP adapters expose the
same engine to remote clients. pkg/dsl scripts whole trips for tests and demos.
*/
package wayfarer
