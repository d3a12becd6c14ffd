package runner

import (
	"context"
	"strings"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// EventInterceptor can veto an event before it is dispatched.
// It returns true if the event should proceed.
type EventInterceptor func(ctx context.Context, state *domain.State, ev domain.Event) (bool, error)

// MultiInterceptor chains interceptors; the first veto wins.
func MultiInterceptor(interceptors ...EventInterceptor) EventInterceptor {
	return func(ctx context.Context, state *domain.State, ev domain.Event) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, state, ev)
			if err != nil {
				return false, err
			}
			if !allowed {
				return false, nil
			}
		}
		return true, nil
	}
}

// Discards reports whether applying ev to state would throw away the trip request:
// restart from review, or retreat from the first step.
func Discards(state *domain.State, ev domain.Event) bool {
	if state == nil {
		return false
	}
	switch {
	case ev.Kind == domain.EventRestart:
		return state.Screen == domain.ScreenReviewing
	case ev.Kind == domain.EventRetreat:
		return state.Screen == domain.ScreenCollecting && state.Step == domain.FirstStep
	}
	return false
}

// ConfirmationMiddleware asks the user through the handler before an event that discards the request.
func ConfirmationMiddleware(handler IOHandler) EventInterceptor {
	return func(ctx context.Context, state *domain.State, ev domain.Event) (bool, error) {
		if !Discards(state, ev) {
			return true, nil
		}

		if err := handler.SystemOutput(ctx, "This discards your trip details. Continue? [y/N]"); err != nil {
			return false, err
		}
		input, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}

		input = strings.TrimSpace(strings.ToLower(input))
		return input == "y" || input == "yes", nil
	}
}

// AutoApproveMiddleware allows everything.
func AutoApproveMiddleware() EventInterceptor {
	return func(ctx context.Context, state *domain.State, ev domain.Event) (bool, error) {
		return true, nil
	}
}
