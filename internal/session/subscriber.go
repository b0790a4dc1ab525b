package session

import (
	"sync"

	"github.com/entityauth/entitykit/internal/domain"
)

// subscriber buffers emissions in an unbounded queue so a slow reader never
// blocks the store or loses an emission.
type subscriber struct {
	mu       sync.Mutex
	queue    []domain.Snapshot
	finished bool

	wake     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	out      chan domain.Snapshot
}

func newSubscriber() *subscriber {
	return &subscriber{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		out:     make(chan domain.Snapshot),
	}
}

func (s *subscriber) push(snapshot domain.Snapshot) {
	s.mu.Lock()
	s.queue = append(s.queue, snapshot)
	s.mu.Unlock()
	s.signal()
}

// finish lets the subscriber drain its queue and then close.
func (s *subscriber) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.signal()
}

// stop closes the subscriber without draining.
func (s *subscriber) stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

func (s *subscriber) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	defer close(s.out)
	defer s.stop()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			finished := s.finished
			s.mu.Unlock()
			if finished {
				return
			}

			select {
			case <-s.wake:
				continue
			case <-s.stopped:
				return
			}
		}

		next := s.queue[0]
		s.queue[0] = domain.Snapshot{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.stopped:
			return
		}
	}
}
