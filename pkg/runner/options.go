package runner

import (
	"log/slog"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the wizard engine. Required.
func WithEngine(engine Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithStore configures the StateStore for persistence.
// It only takes effect together with WithSessionID.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLocker enables distributed locking for the persisted session.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Runner) {
		r.Locker = locker
	}
}

// WithSessionID sets the session ID used for persistence.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithFresh discards any stored state for the session before running.
func WithFresh(fresh bool) Option {
	return func(r *Runner) {
		r.Fresh = fresh
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless switches the default handler to JSON lines and disables confirmations.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the content renderer of the default text handler.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithInterceptor configures the event middleware.
func WithInterceptor(interceptor EventInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithInitialState starts the loop from the given state instead of loading or creating one.
func WithInitialState(state *domain.State) Option {
	return func(r *Runner) {
		r.initialState = state
	}
}
