package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// Engine wraps the pure reducer with the concerns a host needs:
// timestamps, lifecycle hooks, logging and the catalog used for rendering.
type Engine struct {
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
	catalog *catalog.Catalog
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp UpdatedAt and hook events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCatalog sets the catalog used by Render.
func WithCatalog(c *catalog.Catalog) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		now:     time.Now,
		catalog: catalog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog used for rendering.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start creates a fresh Landing state for the session.
func (e *Engine) Start(sessionID string) *domain.State {
	s := domain.NewState(sessionID)
	s.UpdatedAt = e.now()
	return s
}

// Dispatch applies an event and reports it to the hooks.
// Hooks fire for every event, including ignored ones, so that metrics can count misses.
func (e *Engine) Dispatch(ctx context.Context, s *domain.State, ev domain.Event) (*domain.State, domain.Outcome) {
	next, outcome := Apply(s, ev)
	if s == nil {
		s = next
	}

	ts := e.now()
	if outcome.Changed() {
		next.UpdatedAt = ts
	}

	e.logger.Debug("wizard event",
		"session_id", next.SessionID,
		"event", ev.String(),
		"outcome", outcome,
		"from", StateNodeID(s),
		"to", StateNodeID(next),
	)

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			Timestamp: ts,
			SessionID: next.SessionID,
			Event:     ev.Kind,
			Outcome:   outcome,
			From:      s.Screen,
			FromStep:  s.Step,
			To:        next.Screen,
			ToStep:    next.Step,
		})
	}

	if outcome == domain.OutcomeSubmitted && next.Submitted != nil {
		e.logger.Info("trip request submitted",
			"session_id", next.SessionID,
			"destination", next.Submitted.Destination,
			"group_size", next.Submitted.GroupSize,
		)
		if e.hooks.OnSubmit != nil {
			e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
				Timestamp: ts,
				SessionID: next.SessionID,
				Request:   *next.Submitted.Clone(),
			})
		}
	}

	return next, outcome
}

// Render builds the view for a state using the engine's catalog.
func (e *Engine) Render(s *domain.State) domain.View {
	return Render(s, e.catalog)
}
