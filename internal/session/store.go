// Package session owns the live Snapshot and publishes coalesced changes to
// subscribers.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/metrics"
)

var ErrBatchEnded = errors.New("batch already ended")

// Store holds the single live Snapshot. All mutations go through it and are
// serialized by one mutex together with the suppression counter, the pending
// flag and the generation.
type Store struct {
	mu         sync.Mutex
	snapshot   domain.Snapshot
	suppressed int
	pending    bool
	generation uint64
	closed     bool

	subscribers map[uint64]*subscriber
	nextID      uint64

	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewStore(logger *zap.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		subscribers: make(map[uint64]*subscriber),
		logger:      logger,
		metrics:     m,
	}
}

// Current returns a copy of the latest committed Snapshot.
func (s *Store) Current() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot.Clone()
}

// Generation changes every time the Snapshot is reset or replaced wholesale.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

// Update applies a self-contained change. It emits immediately unless a batch
// is open, in which case the change is published when the outermost batch
// ends.
func (s *Store) Update(fn func(*domain.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mutateLocked(fn)
}

// UpdateAt is Update guarded by a generation captured earlier. It returns
// domain.ErrSessionReset and changes nothing when the session moved on.
func (s *Store) UpdateAt(generation uint64, fn func(*domain.Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return domain.ErrSessionReset
	}

	s.mutateLocked(fn)
	return nil
}

// Reset empties the Snapshot and emits right away, even while batches are
// open. Batches opened before the reset can no longer apply changes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.snapshot = domain.Snapshot{}
	s.pending = false
	s.emitLocked()
}

// Begin opens a coalescing batch. Every batch must be ended.
func (s *Store) Begin() *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppressed++
	return &Batch{store: s, generation: s.generation}
}

// Subscribe returns a channel that yields the current Snapshot first and then
// every emission in commit order. The channel is closed when ctx is done, the
// returned cancel func is called or the store is closed.
func (s *Store) Subscribe(ctx context.Context) (<-chan domain.Snapshot, func()) {
	s.mu.Lock()
	sub := newSubscriber()
	sub.push(s.snapshot.Clone())

	id := s.nextID
	s.nextID++
	if s.closed {
		sub.finish()
	} else {
		s.subscribers[id] = sub
	}
	s.mu.Unlock()

	go sub.run()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			sub.stop()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-sub.stopped:
		}
	}()

	return sub.out, cancel
}

// Close tears the publisher down. Subscribers receive what is already queued
// and then see their channel closed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	for id, sub := range s.subscribers {
		sub.finish()
		delete(s.subscribers, id)
	}
}

func (s *Store) mutateLocked(fn func(*domain.Snapshot)) {
	fn(&s.snapshot)
	if s.suppressed > 0 {
		s.pending = true
		return
	}

	s.emitLocked()
}

func (s *Store) emitLocked() {
	for _, sub := range s.subscribers {
		sub.push(s.snapshot.Clone())
	}

	s.metrics.RecordEmission()
	s.logger.Debug("snapshot emitted",
		zap.Uint64("generation", s.generation),
		zap.Int("subscribers", len(s.subscribers)),
		zap.Bool("signed_in", s.snapshot.SignedIn()),
	)
}

// Batch is one coalescing scope. Changes applied through it are published as
// a single emission when the outermost open batch ends.
type Batch struct {
	store      *Store
	generation uint64
	ended      bool
}

// Apply mutates the Snapshot. It fails with domain.ErrSessionReset when the
// session was reset or replaced after the batch was opened.
func (b *Batch) Apply(fn func(*domain.Snapshot)) error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ended {
		return ErrBatchEnded
	}
	if b.generation != s.generation {
		return domain.ErrSessionReset
	}

	fn(&s.snapshot)
	s.pending = true
	return nil
}

// Replace swaps in a whole new Snapshot and advances the generation, so other
// in-flight batches become stale. The batch itself stays usable.
func (b *Batch) Replace(snapshot domain.Snapshot) error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ended {
		return ErrBatchEnded
	}
	if b.generation != s.generation {
		return domain.ErrSessionReset
	}

	s.generation++
	b.generation = s.generation
	s.snapshot = snapshot.Clone()
	s.pending = true
	return nil
}

// Generation is the generation this batch applies to.
func (b *Batch) Generation() uint64 {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	return b.generation
}

// End closes the batch. Calling it more than once is a no-op.
func (b *Batch) End() {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ended {
		return
	}

	b.ended = true
	s.suppressed--
	if s.suppressed == 0 && s.pending {
		s.pending = false
		s.emitLocked()
	}
}
