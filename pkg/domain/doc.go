/*
Package domain contains the core domain models of the Wayfarer trip planning wizard.

It defines the wizard screens, the data-collection sub-steps, the trip request that is
collected field by field, and the typed events that drive transitions. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Screen: The active top-level screen (Landing, Collecting, Reviewing).
  - Step: The sub-step cursor while collecting (destination, dates, budget, group, interests).
  - TripRequest: The accumulated user input describing a desired trip.
  - State: The owned application snapshot of a session (Screen, Step, Draft, Submitted).
  - Event: A discrete, typed user action emitted by a renderer.
  - Outcome: The tagged result of applying an Event to a State.
*/
package domain
