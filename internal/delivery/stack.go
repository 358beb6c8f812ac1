// Package delivery hands decoded samples from the reader goroutine to the
// dashboard.
//
// The hand-off is a bounded stack, not a queue: a receiver always gets the
// most recently pushed item. When the dashboard falls behind the sampler,
// older samples are never delivered and the screen shows the freshest data.
// Pushing onto a full stack evicts the oldest entry.
package delivery

import (
	"context"
	"sync"
	"time"
)

// DefaultCapacity is the stack depth used when none is configured.
const DefaultCapacity = 8

// Outcome tags the result of a Receive call.
type Outcome int

const (
	// Delivered means Result.Value holds an item.
	Delivered Outcome = iota
	// TimedOut means nothing arrived before the timeout elapsed.
	TimedOut
	// Closed means the producer is done (or the context ended) and no
	// buffered items remain.
	Closed
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case TimedOut:
		return "timed out"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Result is returned by Receive. Value is only meaningful when Outcome is
// Delivered.
type Result[T any] struct {
	Outcome Outcome
	Value   T
}

// Stack is a bounded last-in-first-out hand-off between one producer and one
// consumer. It is safe for concurrent use.
type Stack[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	closed   bool
	dropped  uint64
	pushed   uint64

	// ready holds at most one wake-up token. Tokens can be stale; Receive
	// always re-checks items under the lock.
	ready chan struct{}
}

// New creates a stack holding at most capacity items. A non-positive
// capacity uses DefaultCapacity.
func New[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		ready:    make(chan struct{}, 1),
	}
}

// Push adds v on top of the stack. If the stack is full the oldest item is
// evicted. Push returns false if the stack has been closed.
func (s *Stack[T]) Push(v T) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if len(s.items) == s.capacity {
		var zero T
		copy(s.items, s.items[1:])
		s.items[len(s.items)-1] = zero
		s.items = s.items[:len(s.items)-1]
		s.dropped++
	}
	s.items = append(s.items, v)
	s.pushed++
	s.mu.Unlock()

	s.wake()
	return true
}

// Receive blocks until an item is available, the timeout elapses, the stack
// is closed and drained, or ctx is done. A non-positive timeout waits
// without a deadline.
func (s *Stack[T]) Receive(ctx context.Context, timeout time.Duration) Result[T] {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if v, ok, closed := s.pop(); ok {
			return Result[T]{Outcome: Delivered, Value: v}
		} else if closed {
			return Result[T]{Outcome: Closed}
		}

		select {
		case <-s.ready:
		case <-deadline:
			return Result[T]{Outcome: TimedOut}
		case <-ctx.Done():
			return Result[T]{Outcome: Closed}
		}
	}
}

func (s *Stack[T]) pop() (v T, ok bool, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	if n == 0 {
		return v, false, s.closed
	}
	v = s.items[n-1]
	var zero T
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true, false
}

// Close marks the producer as finished. Buffered items are still delivered;
// once they are gone Receive reports Closed. Close is idempotent.
func (s *Stack[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *Stack[T]) wake() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of buffered items.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Dropped returns how many items were evicted because the stack was full.
func (s *Stack[T]) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Pushed returns how many items were accepted in total.
func (s *Stack[T]) Pushed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushed
}
