package service

import (
	"context"
	"sync"
)

// Sequencer runs operations one at a time per key, in the order Do was
// called. Cart mutations are keyed by cart ID so that the platform always
// sees them in issue order and the last one issued determines the result.
type Sequencer struct {
	mu     sync.Mutex
	queues map[string]*opQueue
}

type opQueue struct {
	tail    chan struct{} // closed when the most recently queued op finishes
	pending int
}

// NewSequencer creates an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{queues: make(map[string]*opQueue)}
}

// Do waits for every earlier operation on key, then runs fn.
// If ctx ends while waiting, fn is skipped and ctx.Err() is returned; later
// operations still wait for the ones queued before it.
func (s *Sequencer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	prev, done := s.enqueue(key)
	finish := func() {
		close(done)
		s.release(key)
	}

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				finish()
			}()
			return ctx.Err()
		}
	}

	defer finish()
	return fn(ctx)
}

func (s *Sequencer) enqueue(key string) (prev <-chan struct{}, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[key]
	if !ok {
		q = &opQueue{}
		s.queues[key] = q
	}

	done = make(chan struct{})
	if q.tail != nil {
		prev = q.tail
	}
	q.tail = done
	q.pending++
	return prev, done
}

func (s *Sequencer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[key]
	if !ok {
		return
	}
	q.pending--
	if q.pending == 0 {
		delete(s.queues, key)
	}
}

// Pending returns how many operations are queued or running for key.
func (s *Sequencer) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.queues[key]; ok {
		return q.pending
	}
	return 0
}
