package wayfarer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/itinerary"
	"github.com/aretw0/wayfarer/pkg/ports"
)

// Engine is the high-level entry point for the wayfarer library.
// It wraps the internal runtime and provides the host-facing API: event validation,
// rendering, results and introspection.
type Engine struct {
	runtime  *runtime.Engine
	source   ports.CatalogSource
	catalog  *catalog.Catalog
	provider ports.ItineraryProvider
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	clock    func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCatalog sets the interests and destinations shown by the wizard.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.source = c
		}
	}
}

// WithCatalogSource resolves the catalog from a provider (e.g. a Loam directory) at New.
func WithCatalogSource(src ports.CatalogSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithItineraryProvider replaces the built-in sample itinerary provider.
func WithItineraryProvider(p ports.ItineraryProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// New initializes a wayfarer Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	c, err := catalog.Resolve(context.Background(), eng.source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	eng.catalog = c

	if eng.provider == nil {
		eng.provider = itinerary.NewSampleProvider(c)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithCatalog(c),
		runtime.WithClock(eng.clock),
	)

	return eng, nil
}

// Start creates the initial Landing state for a session.
func (e *Engine) Start(sessionID string) *domain.State {
	return e.runtime.Start(sessionID)
}

// Dispatch validates an event from a host and applies it.
// Validation errors (unknown kind, unknown field, malformed date, unknown interest tag)
// are returned without touching the state. Unmet preconditions are not errors: they
// return the state unchanged with domain.OutcomeIgnored.
func (e *Engine) Dispatch(ctx context.Context, state *domain.State, ev domain.Event) (*domain.State, domain.Outcome, error) {
	if err := e.Validate(state, ev); err != nil {
		return state, domain.OutcomeIgnored, err
	}
	next, outcome := e.runtime.Dispatch(ctx, state, ev)
	return next, outcome, nil
}

// Validate checks an event's shape and, for toggles that would add a tag, that the tag is
// in the catalog. Removing a tag already in state's request is always allowed, so tags
// dropped from a reloaded catalog can still be toggled off.
func (e *Engine) Validate(state *domain.State, ev domain.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Kind == domain.EventToggleInterest {
		if req := requestOf(state); req != nil && req.HasInterest(strings.TrimSpace(ev.Tag)) {
			return nil
		}
		if _, ok := e.catalog.Tag(ev.Tag); !ok {
			return fmt.Errorf("%w: unknown interest %q", domain.ErrInvalidValue, ev.Tag)
		}
	}
	return nil
}

// Render generates the view for the current state without transitioning.
func (e *Engine) Render(state *domain.State) domain.View {
	return e.runtime.Render(state)
}

// Itinerary produces results for a submitted request.
// It returns domain.ErrNotSubmitted unless the state is Reviewing.
func (e *Engine) Itinerary(ctx context.Context, state *domain.State) (*domain.Itinerary, error) {
	return itinerary.Generate(ctx, e.provider, state)
}

// Transitions returns the exhaustive transition table, for visualization or introspection tools.
func (e *Engine) Transitions() []domain.Transition {
	return runtime.Transitions()
}

// Catalog returns the resolved catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func requestOf(state *domain.State) *domain.TripRequest {
	if state == nil {
		return nil
	}
	return state.Request()
}
