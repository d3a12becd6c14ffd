package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// LogHooks returns lifecycle hooks that write an audit line per applied event.
// Ignored events are logged at debug level only.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			level := slog.LevelInfo
			if !e.Outcome.Changed() {
				level = slog.LevelDebug
			}
			logger.Log(ctx, level, "transition",
				"session_id", e.SessionID,
				"event", e.Event,
				"outcome", e.Outcome,
				"from", e.From,
				"to", e.To,
			)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.Info("submit",
				"session_id", e.SessionID,
				"destination", e.Request.Destination,
				"budget_per_person", e.Request.BudgetPerPerson,
				"group_size", e.Request.GroupSize,
				"interests", e.Request.Interests,
			)
		},
	}
}
