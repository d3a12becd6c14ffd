package ports

import (
	"context"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// ItineraryProvider produces the results for a frozen trip request.
// Implementations only ever receive submitted requests.
type ItineraryProvider interface {
	Generate(ctx context.Context, req domain.TripRequest) (*domain.Itinerary, error)
}

// CatalogSource supplies the reference data rendered next to the wizard.
// An empty result means "no opinion"; callers fall back to built-in defaults.
type CatalogSource interface {
	ListInterests(ctx context.Context) ([]domain.Interest, error)
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
}
