/*
Package dsl provides a fluent builder for scripted wizard sessions.

It lets tests, demos and seed tooling describe a whole trip in Go and replay it
against an engine as the same events a renderer would emit, instead of hand-writing
event slices.

Example usage:

	script := dsl.NewTrip().
		To("Goa").
		Dates("2026-12-20", "2026-12-27").
		Budget(45000).
		Group(4).
		Likes("nature", "food")

	engine, _ := wayfarer.New()
	state, err := script.Play(ctx, engine, engine.Start("demo"))
	// state.Screen == domain.ScreenReviewing
*/
package dsl
