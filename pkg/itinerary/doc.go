// Package itinerary turns a submitted trip request into a day-by-day plan.
//
// SampleProvider is deterministic and has no external dependencies. It stands in
// for a real planning backend behind ports.ItineraryProvider.
package itinerary
