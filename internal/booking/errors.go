// Package booking implements the appointment token engine: request
// validation, strictly increasing token allocation and transaction ID
// generation, composed into a single Book operation.  The engine owns no
// storage; it drives a Store implementation through an atomic conditional
// commit so that concurrent callers can never be issued the same token.
package booking

import "errors"

// ErrSequenceConflict is returned by a Store when another writer committed
// the proposed token number first.  The engine treats it as transient and
// retries with a re-read maximum; Store implementations must return it (or
// wrap it) for duplicate-key style failures.
var ErrSequenceConflict = errors.New("token sequence conflict")

// ErrSequencerContention is returned when the allocation retry budget is
// exhausted without a successful commit.  Handlers should translate it
// into a 5xx "try again" response.
var ErrSequencerContention = errors.New("sequencer contention")

// ErrStoreUnavailable is returned when the backing store fails for reasons
// other than a sequence conflict.  The engine does not retry it; the
// caller may retry the whole request.
var ErrStoreUnavailable = errors.New("booking store unavailable")

// ValidationKind labels the reason a booking request was rejected before
// reaching the sequencer.
type ValidationKind string

const (
	// MissingField: date, slot or supplier identifier is absent.
	MissingField ValidationKind = "missing_field"
	// InvalidSlotShape: the slot does not carry both boundaries in HH:MM form.
	InvalidSlotShape ValidationKind = "invalid_slot_shape"
	// SlotNotBookable: the slot is outside the calendar or already elapsed.
	SlotNotBookable ValidationKind = "slot_not_bookable"
)

// ValidationError describes a rejected booking request.  It is a caller
// error: handlers map it to a 4xx response and never retry it.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(kind ValidationKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}
