package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownEvent is returned by hosts when an event kind is not part of the wizard vocabulary.
var ErrUnknownEvent = errors.New("unknown event")

// ErrUnknownField is returned by hosts when a set_field event names a field the request does not have.
var ErrUnknownField = errors.New("unknown field")

// ErrInvalidValue is returned by hosts when an event payload cannot be interpreted (e.g. a malformed date).
var ErrInvalidValue = errors.New("invalid value")

// ErrNotSubmitted is returned when a consumer asks for results before the request was submitted.
var ErrNotSubmitted = errors.New("trip request not submitted")
