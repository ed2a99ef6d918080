package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/clock"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
)

// Store is the persistence boundary the engine drives.  Implementations
// must make Create an atomic conditional commit: when the proposed
// TokenSeq (or TransactionID) was already committed by another writer,
// Create must fail with ErrSequenceConflict and leave no partial record
// behind.  A plain read-modify-write pair of separate statements does not
// satisfy this contract.
type Store interface {
	// LastTokenSeq returns the highest committed token sequence number,
	// or 0 when no booking exists yet.
	LastTokenSeq(ctx context.Context) (uint64, error)
	// Create persists the booking, enforcing uniqueness of TokenSeq and
	// TransactionID as one commit-or-nothing operation.
	Create(ctx context.Context, b *model.Booking) error
}

// Confirmation is returned to the caller after a successful booking.
type Confirmation struct {
	TokenNo        string
	TransactionID  string
	SlotDescriptor string
	CreatedAt      time.Time
}

const (
	// DefaultMaxAttempts bounds the allocation retry loop.
	DefaultMaxAttempts = 5
	// DefaultAttemptTimeout bounds each individual allocation attempt.
	DefaultAttemptTimeout = 3 * time.Second
)

// Engine composes the validator, the token sequencer and the transaction
// ID generator.  It is safe for concurrent use; the only shared mutable
// state is the backing store, which serializes conflicting allocations
// through its own atomicity primitive.  That keeps allocation correct
// even when several process instances run at once.
type Engine struct {
	store          Store
	clock          clock.Clock
	maxAttempts    int
	attemptTimeout time.Duration
}

// NewEngine returns an Engine bound to the given store and clock.
// Non-positive maxAttempts or attemptTimeout fall back to the defaults.
func NewEngine(store Store, clk clock.Clock, maxAttempts int, attemptTimeout time.Duration) *Engine {
	if store == nil || clk == nil {
		panic("nil store or clock passed to NewEngine")
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Engine{store: store, clock: clk, maxAttempts: maxAttempts, attemptTimeout: attemptTimeout}
}

// Book validates the request, allocates the next token and persists the
// booking as one atomic commit.  On success it returns the token number
// and transaction ID.  Failure modes:
//
//   - *ValidationError       – the request itself is invalid; not retried.
//   - ErrSequencerContention – the retry budget ran out under concurrent load.
//   - ErrStoreUnavailable    – the store failed; the caller may retry the
//     whole request.
//
// Tokens are issued in commit order: whichever concurrent request commits
// first gets the lower number.  If the caller abandons the request after
// the commit succeeded, the booking stands.
func (e *Engine) Book(ctx context.Context, req Request) (*Confirmation, error) {
	v, err := Validate(req, e.clock.Now())
	if err != nil {
		return nil, err
	}
	return e.allocate(ctx, v)
}

// allocate runs the read-max / propose / conditional-commit loop.  Each
// attempt re-reads both the current maximum and the clock, so a retry
// after a conflict proposes the correctly advanced number and a fresh
// transaction ID rather than a duplicate of the winning writer's values.
func (e *Engine) allocate(ctx context.Context, v *Validated) (*Confirmation, error) {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := e.tryAllocate(ctx, v)
		if err == nil {
			return &Confirmation{
				TokenNo:        rec.TokenNo,
				TransactionID:  rec.TransactionID,
				SlotDescriptor: rec.SlotDescriptor,
				CreatedAt:      rec.CreatedAt,
			}, nil
		}
		if errors.Is(err, ErrSequenceConflict) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrSequencerContention, e.maxAttempts)
}

// tryAllocate performs a single bounded allocation attempt.
func (e *Engine) tryAllocate(ctx context.Context, v *Validated) (*model.Booking, error) {
	actx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
	defer cancel()

	last, err := e.store.LastTokenSeq(actx)
	if err != nil {
		return nil, fmt.Errorf("%w: read last token: %v", ErrStoreUnavailable, err)
	}
	// Empty store seeds the sequence at 1 so the very first booking gets O1.
	next := last + 1
	now := e.clock.Now()
	rec := &model.Booking{
		TransactionID:  TransactionID(now),
		TokenNo:        fmt.Sprintf("O%d", next),
		TokenSeq:       next,
		SupplierRef:    v.SupplierID,
		SlotDescriptor: v.SlotDescriptor,
		CreatedAt:      now,
	}
	if err := e.store.Create(actx, rec); err != nil {
		if errors.Is(err, ErrSequenceConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: create booking: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}
