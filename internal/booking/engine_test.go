package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
)

// fakeStore is an in-memory Store enforcing the same uniqueness the MySQL
// schema does: a proposed token_seq or transaction_id that was already
// committed fails the whole Create with ErrSequenceConflict.
type fakeStore struct {
	mu          sync.Mutex
	bySeq       map[uint64]*model.Booking
	txids       map[string]struct{}
	createCalls int
	readErr     error
	createErr   error
}

func newFakeStore(seed uint64) *fakeStore {
	f := &fakeStore{
		bySeq: make(map[uint64]*model.Booking),
		txids: make(map[string]struct{}),
	}
	for i := uint64(1); i <= seed; i++ {
		f.bySeq[i] = &model.Booking{TokenSeq: i, TokenNo: fmt.Sprintf("O%d", i)}
		f.txids[fmt.Sprintf("seed-%d", i)] = struct{}{}
	}
	return f
}

func (f *fakeStore) LastTokenSeq(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	var max uint64
	for seq := range f.bySeq {
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (f *fakeStore) Create(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.bySeq[b.TokenSeq]; taken {
		return fmt.Errorf("token_seq %d: %w", b.TokenSeq, ErrSequenceConflict)
	}
	if _, taken := f.txids[b.TransactionID]; taken {
		return fmt.Errorf("transaction_id %s: %w", b.TransactionID, ErrSequenceConflict)
	}
	cp := *b
	f.bySeq[b.TokenSeq] = &cp
	f.txids[b.TransactionID] = struct{}{}
	return nil
}

// staleStore wraps fakeStore and serves a fixed stale maximum for the
// first few reads, simulating a competing writer that committed between
// our read and our insert.
type staleStore struct {
	*fakeStore
	staleValue uint64
	staleReads int
	mu         sync.Mutex
}

func (s *staleStore) LastTokenSeq(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	if s.staleReads > 0 {
		s.staleReads--
		s.mu.Unlock()
		return s.staleValue, nil
	}
	s.mu.Unlock()
	return s.fakeStore.LastTokenSeq(ctx)
}

// stepClock advances one millisecond per reading, like a real clock under
// back-to-back calls.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Millisecond)
	return s.now
}

var baseTime = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

func validRequest(supplier string) Request {
	return Request{
		SupplierID: supplier,
		Date:       "2025-03-06",
		StartTime:  "07:00",
		EndTime:    "08:00",
	}
}

func TestEngine_Book(t *testing.T) {
	t.Parallel()

	t.Run("first booking against an empty store gets O1", func(t *testing.T) {
		store := newFakeStore(0)
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		conf, err := eng.Book(context.Background(), validRequest("SUP-001"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if conf.TokenNo != "O1" {
			t.Fatalf("expected token O1, got %s", conf.TokenNo)
		}
		if conf.SlotDescriptor != "0603202507000800" {
			t.Fatalf("expected descriptor 0603202507000800, got %s", conf.SlotDescriptor)
		}
	})

	t.Run("continues an existing sequence", func(t *testing.T) {
		store := newFakeStore(41)
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		conf, err := eng.Book(context.Background(), validRequest("SUP-001"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if conf.TokenNo != "O42" {
			t.Fatalf("expected token O42, got %s", conf.TokenNo)
		}
	})

	t.Run("validation failure leaves the store untouched", func(t *testing.T) {
		store := newFakeStore(0)
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		req := validRequest("SUP-001")
		req.StartTime = ""
		_, err := eng.Book(context.Background(), req)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Kind != MissingField {
			t.Fatalf("expected MissingField validation error, got %v", err)
		}
		if store.createCalls != 0 || len(store.bySeq) != 0 {
			t.Fatalf("store was touched on a rejected request")
		}
	})

	t.Run("retries past a competing writer without duplicating its number", func(t *testing.T) {
		// The store already holds tokens up to 5, but the first two reads
		// report a stale maximum of 3, as if another writer committed 4
		// and 5 between our read and our insert.
		inner := newFakeStore(5)
		store := &staleStore{fakeStore: inner, staleValue: 3, staleReads: 2}
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		conf, err := eng.Book(context.Background(), validRequest("SUP-001"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if conf.TokenNo != "O6" {
			t.Fatalf("expected token O6 after retry, got %s", conf.TokenNo)
		}
		// Two conflicted attempts plus the successful one.
		if inner.createCalls != 3 {
			t.Fatalf("expected 3 create attempts, got %d", inner.createCalls)
		}
	})

	t.Run("surfaces contention when the retry budget runs out", func(t *testing.T) {
		inner := newFakeStore(9)
		store := &staleStore{fakeStore: inner, staleValue: 2, staleReads: 1000}
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		_, err := eng.Book(context.Background(), validRequest("SUP-001"))
		if !errors.Is(err, ErrSequencerContention) {
			t.Fatalf("expected ErrSequencerContention, got %v", err)
		}
		if inner.createCalls != 5 {
			t.Fatalf("expected exactly 5 attempts, got %d", inner.createCalls)
		}
	})

	t.Run("store read failure maps to ErrStoreUnavailable without retry", func(t *testing.T) {
		store := newFakeStore(0)
		store.readErr = errors.New("connection refused")
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		_, err := eng.Book(context.Background(), validRequest("SUP-001"))
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
		if store.createCalls != 0 {
			t.Fatalf("expected no create attempts, got %d", store.createCalls)
		}
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		store := newFakeStore(0)
		eng := NewEngine(store, &stepClock{now: baseTime}, 5, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := eng.Book(ctx, validRequest("SUP-001"))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestEngine_ConcurrentAllocations(t *testing.T) {
	t.Parallel()

	const (
		seed    = 7
		callers = 50
	)
	store := newFakeStore(seed)
	// A generous retry budget: the property under test is that N
	// successful allocations form exactly {k+1..k+N}, not how quickly a
	// loser converges.
	eng := NewEngine(store, &stepClock{now: baseTime}, 100, time.Second)

	var wg sync.WaitGroup
	confs := make([]*Confirmation, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			confs[i], errs[i] = eng.Book(context.Background(), validRequest(fmt.Sprintf("SUP-%03d", i)))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	txids := make(map[string]int)
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		seen[confs[i].TokenNo]++
		txids[confs[i].TransactionID]++
	}
	// Exactly {seed+1 .. seed+callers}, no duplicates, nothing outside.
	if len(seen) != callers {
		t.Fatalf("expected %d distinct tokens, got %d", callers, len(seen))
	}
	for n := seed + 1; n <= seed+callers; n++ {
		token := fmt.Sprintf("O%d", n)
		if seen[token] != 1 {
			t.Fatalf("expected exactly one allocation of %s, got %d", token, seen[token])
		}
	}
	if len(txids) != callers {
		t.Fatalf("expected %d distinct transaction IDs, got %d", callers, len(txids))
	}
}
