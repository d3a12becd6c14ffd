/*
Package ports defines the driven ports (interfaces) for the wayfarer engine.

These interfaces decouple the wizard core from external implementations, allowing
hosts to plug in storage backends, locking and data providers.

# Key Interfaces

  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - ItineraryProvider: Turns a submitted TripRequest into an Itinerary.
  - CatalogSource: Supplies the interest tags and known destinations.
*/
package ports
