package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
	"github.com/aretw0/wayfarer/pkg/session"
)

// ErrNoEngine is returned by Run when no engine was configured.
var ErrNoEngine = errors.New("runner: no engine configured")

// Engine is what the Runner needs from the wizard engine.
type Engine interface {
	session.Engine
	Renderer
	Itinerary(ctx context.Context, state *domain.State) (*domain.Itinerary, error)
}

// Runner handles the interactive loop of the wizard using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler (or JSONHandler when Headless) on stdio is used.
	Handler IOHandler

	// Interceptor vets events before dispatch.
	// If nil, destructive events are confirmed interactively (auto-approved when Headless).
	Interceptor EventInterceptor

	// Logger is used for internal debug logging. Defaults to a no-op logger.
	Logger *slog.Logger

	// Store persists the session after every change. If nil or SessionID is empty, the session is ephemeral.
	Store     ports.StateStore
	Locker    ports.DistributedLocker
	SessionID string
	Fresh     bool

	Headless bool
	Renderer ContentRenderer

	engine       Engine
	initialState *domain.State
	sessions     *session.Manager
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolveInitialState picks the starting state: the injected one, a fresh one, or the stored session.
func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, error) {
	if r.Store != nil && r.SessionID != "" {
		r.sessions = session.NewManager(r.Store, r.engine,
			session.WithLocker(r.Locker),
			session.WithLogger(r.Logger),
		)
	}

	switch {
	case r.initialState != nil:
		if r.sessions != nil {
			if err := r.sessions.Save(ctx, r.SessionID, r.initialState); err != nil {
				return nil, fmt.Errorf("failed to save initial state: %w", err)
			}
		}
		return r.initialState, nil
	case r.sessions == nil:
		return r.engine.Start(r.SessionID), nil
	case r.Fresh:
		return r.sessions.Reset(ctx, r.SessionID)
	}

	state, created, err := r.sessions.LoadOrStart(ctx, r.SessionID)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("session ready", "session_id", r.SessionID, "created", created, "screen", state.Screen)
	return state, nil
}

// Run executes the loop until the user quits, the input ends or a signal arrives.
// Persisted sessions are saved after every change, so an interrupted run can be resumed.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return ErrNoEngine
	}

	handler := r.resolveHandler()
	interceptor := r.resolveInterceptor(handler)

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	state, err := r.resolveInitialState(signals.Context())
	if err != nil {
		return err
	}

	dirty := true
	for {
		loopCtx := signals.Context()

		if dirty {
			if err := handler.Output(loopCtx, NewResponse(r.engine, state, "")); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			dirty = false
		}

		line, err := handler.Input(loopCtx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case signals.Interrupted():
				r.Logger.Debug("runner interrupted", "session_id", r.SessionID)
				if r.sessions != nil {
					_ = handler.SystemOutput(ctx, fmt.Sprintf("Interrupted. Session %q is saved.", r.SessionID))
				}
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := handler.SystemOutput(loopCtx, err.Error()); err != nil {
				return err
			}
			continue
		}

		switch cmd.Kind {
		case CommandQuit:
			return nil
		case CommandShow:
			dirty = true
		case CommandHelp:
			if err := handler.SystemOutput(loopCtx, Help); err != nil {
				return err
			}
		case CommandItinerary:
			if err := r.showItinerary(loopCtx, handler, state); err != nil {
				return err
			}
		case CommandEvent:
			next, render, err := r.dispatch(loopCtx, handler, interceptor, state, cmd.Event)
			if err != nil {
				return err
			}
			dirty = render
			state = next
		}
	}
}

// dispatch applies one event. Host-level validation problems and no-ops are reported to the user;
// only storage and IO failures are returned. render reports whether the new state still needs printing.
func (r *Runner) dispatch(
	ctx context.Context,
	handler IOHandler,
	interceptor EventInterceptor,
	state *domain.State,
	ev domain.Event,
) (next *domain.State, render bool, err error) {
	allowed, err := interceptor(ctx, state, ev)
	if err != nil {
		return state, false, fmt.Errorf("interceptor error: %w", err)
	}
	if !allowed {
		return state, false, handler.SystemOutput(ctx, "Cancelled.")
	}

	var outcome domain.Outcome
	if r.sessions != nil {
		var update *session.Update
		update, err = r.sessions.Dispatch(ctx, r.SessionID, ev)
		if err == nil {
			next, outcome = update.After, update.Outcome
		}
	} else {
		next, outcome, err = r.engine.Dispatch(ctx, state, ev)
	}

	if err != nil {
		if isUserError(err) {
			return state, false, handler.SystemOutput(ctx, err.Error())
		}
		return state, false, fmt.Errorf("dispatch error: %w", err)
	}

	r.Logger.Debug("event applied", "session_id", r.SessionID, "event", ev.String(), "outcome", outcome)

	switch outcome {
	case domain.OutcomeIgnored:
		return state, false, handler.SystemOutput(ctx, fmt.Sprintf("%q is not available on the %s screen.", ev.Kind, state.Screen))
	case domain.OutcomeUnchanged:
		return state, false, handler.SystemOutput(ctx, "Nothing changed.")
	case domain.OutcomeSubmitted:
		if err := handler.Output(ctx, NewResponse(r.engine, next, outcome)); err != nil {
			return next, false, err
		}
		return next, false, r.showItinerary(ctx, handler, next)
	}
	return next, true, nil
}

func (r *Runner) showItinerary(ctx context.Context, handler IOHandler, state *domain.State) error {
	it, err := r.engine.Itinerary(ctx, state)
	if errors.Is(err, domain.ErrNotSubmitted) {
		return handler.SystemOutput(ctx, "No itinerary yet: complete the steps first.")
	}
	if err != nil {
		return fmt.Errorf("itinerary error: %w", err)
	}
	resp := NewResponse(r.engine, state, "")
	resp.Itinerary = it
	return handler.Output(ctx, resp)
}

func isUserError(err error) bool {
	return errors.Is(err, domain.ErrInvalidValue) ||
		errors.Is(err, domain.ErrUnknownField) ||
		errors.Is(err, domain.ErrUnknownEvent)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Headless {
		r.Handler = NewJSONHandler(os.Stdin, os.Stdout)
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}

// resolveInterceptor returns the configured or default interceptor.
func (r *Runner) resolveInterceptor(h IOHandler) EventInterceptor {
	if r.Interceptor != nil {
		return r.Interceptor
	}
	if r.Headless {
		return AutoApproveMiddleware()
	}
	return ConfirmationMiddleware(h)
}
