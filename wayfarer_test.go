package wayfarer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProvider struct{ it *domain.Itinerary }

func (f fixedProvider) Generate(ctx context.Context, req domain.TripRequest) (*domain.Itinerary, error) {
	out := *f.it
	out.Destination = req.Destination
	return &out, nil
}

type failingSource struct{}

func (failingSource) ListInterests(ctx context.Context) ([]domain.Interest, error) {
	return nil, errors.New("disk on fire")
}

func (failingSource) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	return nil, nil
}

func TestEngine_Dispatch(t *testing.T) {
	eng, err := wayfarer.New()
	require.NoError(t, err)
	ctx := context.Background()

	state := eng.Start("s1")
	state, outcome, err := eng.Dispatch(ctx, state, domain.Start())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStarted, outcome)

	t.Run("Rejects Unknown Tag", func(t *testing.T) {
		next, outcome, err := eng.Dispatch(ctx, state, domain.ToggleInterest("skydiving"))
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
		assert.Same(t, state, next)
	})

	t.Run("Rejects Malformed Date", func(t *testing.T) {
		_, _, err := eng.Dispatch(ctx, state, domain.SetText(domain.FieldStartDate, "next friday"))
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
	})

	t.Run("Precondition Miss Is Not An Error", func(t *testing.T) {
		_, outcome, err := eng.Dispatch(ctx, state, domain.Restart())
		assert.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
	})
}

func TestEngine_Itinerary(t *testing.T) {
	eng, err := wayfarer.New(wayfarer.WithItineraryProvider(fixedProvider{it: &domain.Itinerary{Travelers: 7}}))
	require.NoError(t, err)
	ctx := context.Background()

	state := eng.Start("s1")
	_, err = eng.Itinerary(ctx, state)
	assert.ErrorIs(t, err, domain.ErrNotSubmitted)

	state, _, _ = eng.Dispatch(ctx, state, domain.Start())
	state, _, _ = eng.Dispatch(ctx, state, domain.SetText(domain.FieldDestination, "Goa"))
	for range domain.StepCount {
		state, _, _ = eng.Dispatch(ctx, state, domain.Advance())
	}

	it, err := eng.Itinerary(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "Goa", it.Destination)
	assert.Equal(t, 7, it.Travelers)
}

func TestEngine_Catalog(t *testing.T) {
	eng, err := wayfarer.New(wayfarer.WithCatalog(&catalog.Catalog{
		Interests: []domain.Interest{{ID: "diving", Label: "Diving"}},
	}))
	require.NoError(t, err)

	assert.Len(t, eng.Catalog().Interests, 1)
	assert.Len(t, eng.Catalog().Destinations, 3, "missing destinations fall back to defaults")

	_, err = wayfarer.New(wayfarer.WithCatalogSource(failingSource{}))
	assert.Error(t, err)
}

func TestEngine_ToggleOffTagDroppedFromCatalog(t *testing.T) {
	eng, err := wayfarer.New(wayfarer.WithCatalog(&catalog.Catalog{
		Interests: []domain.Interest{{ID: "food", Label: "Food"}},
	}))
	require.NoError(t, err)
	ctx := context.Background()

	state := domain.NewState("stale")
	state.Screen = domain.ScreenCollecting
	state.Step = domain.StepInterests
	state.Draft = domain.DefaultTripRequest()
	state.Draft.Interests = []string{"shopping"}

	next, outcome, err := eng.Dispatch(ctx, state, domain.ToggleInterest("shopping"))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeToggled, outcome)
	assert.Empty(t, next.Draft.Interests)

	_, _, err = eng.Dispatch(ctx, next, domain.ToggleInterest("shopping"))
	assert.ErrorIs(t, err, domain.ErrInvalidValue, "unknown tags still cannot be added")

	_, _, err = eng.Dispatch(ctx, eng.Start("fresh"), domain.ToggleInterest("shopping"))
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestEngine_Transitions(t *testing.T) {
	eng, err := wayfarer.New()
	require.NoError(t, err)
	assert.NotEmpty(t, eng.Transitions())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, wayfarer.Version)
}
