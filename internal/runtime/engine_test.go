package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var transitions []*domain.TransitionEvent
	var submits []*domain.SubmitEvent

	hooks := domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			transitions = append(transitions, e)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			submits = append(submits, e)
		},
	}

	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	state := engine.Start("sess-1")
	state, outcome := engine.Dispatch(ctx, state, domain.Edit())
	assert.Equal(t, domain.OutcomeIgnored, outcome)

	state, _ = engine.Dispatch(ctx, state, domain.Start())
	state, _ = engine.Dispatch(ctx, state, domain.SetText(domain.FieldDestination, "Goa"))
	for range int(domain.LastStep) + 1 {
		state, _ = engine.Dispatch(ctx, state, domain.Advance())
	}

	require.Equal(t, domain.ScreenReviewing, state.Screen)
	require.Len(t, transitions, 8)

	assert.Equal(t, domain.OutcomeIgnored, transitions[0].Outcome, "ignored events are reported too")
	assert.Equal(t, domain.ScreenLanding, transitions[1].From)
	assert.Equal(t, domain.ScreenCollecting, transitions[1].To)

	last := transitions[len(transitions)-1]
	assert.Equal(t, domain.OutcomeSubmitted, last.Outcome)
	assert.Equal(t, domain.StepInterests, last.FromStep)
	assert.Equal(t, domain.ScreenReviewing, last.To)

	require.Len(t, submits, 1)
	assert.Equal(t, "sess-1", submits[0].SessionID)
	assert.Equal(t, "Goa", submits[0].Request.Destination)
}

func TestEngine_StampsUpdatedAtOnChange(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	engine := runtime.NewEngine(runtime.WithClock(clock))
	ctx := context.Background()

	state := engine.Start("s")
	assert.Equal(t, now, state.UpdatedAt)

	now = now.Add(time.Minute)
	same, _ := engine.Dispatch(ctx, state, domain.Advance())
	assert.Equal(t, state.UpdatedAt, same.UpdatedAt, "ignored events keep the timestamp")

	next, _ := engine.Dispatch(ctx, state, domain.Start())
	assert.Equal(t, now, next.UpdatedAt)
	assert.NotEqual(t, next.UpdatedAt, state.UpdatedAt, "input state is not touched")
}

func TestEngine_RenderUsesCatalog(t *testing.T) {
	c := &catalog.Catalog{
		Interests:    []domain.Interest{{ID: "diving", Label: "Diving"}},
		Destinations: []domain.Destination{{Name: "Andaman"}},
	}
	engine := runtime.NewEngine(runtime.WithCatalog(c))
	ctx := context.Background()

	state, _ := engine.Dispatch(ctx, engine.Start("s"), domain.Start())
	state, _ = engine.Dispatch(ctx, state, domain.SetText(domain.FieldDestination, "andaman"))

	v := engine.Render(state)
	assert.Equal(t, "Andaman", v.Highlight)
	assert.Same(t, c, engine.Catalog())
}

func TestEngine_NilOptionsKeepDefaults(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithLogger(nil), runtime.WithClock(nil), runtime.WithCatalog(nil))

	state, outcome := engine.Dispatch(context.Background(), nil, domain.Start())
	assert.Equal(t, domain.OutcomeStarted, outcome)
	assert.False(t, state.UpdatedAt.IsZero())
	assert.NotNil(t, engine.Catalog())
}
