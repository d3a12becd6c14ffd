package domain

import (
	"context"
	"time"
)

// TransitionEvent describes an applied event for observability.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Event     EventKind `json:"event"`
	Outcome   Outcome   `json:"outcome"`
	From      Screen    `json:"from"`
	FromStep  Step      `json:"from_step"`
	To        Screen    `json:"to"`
	ToStep    Step      `json:"to_step"`
}

// SubmitEvent is emitted when a request is frozen and handed to Reviewing.
type SubmitEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	SessionID string      `json:"session_id"`
	Request   TripRequest `json:"request"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnSubmit     func(context.Context, *SubmitEvent)
}

// ChainHooks fans each callback out to every non-nil hook in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnSubmit: func(ctx context.Context, e *SubmitEvent) {
			for _, h := range hooks {
				if h.OnSubmit != nil {
					h.OnSubmit(ctx, e)
				}
			}
		},
	}
}
