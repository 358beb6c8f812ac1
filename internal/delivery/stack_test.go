package delivery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_LastInFirstOut(t *testing.T) {
	s := New[int](4)
	s.Push(1)
	s.Push(2)
	s.Push(3)

	ctx := context.Background()
	for _, want := range []int{3, 2, 1} {
		res := s.Receive(ctx, time.Second)
		require.Equal(t, Delivered, res.Outcome)
		assert.Equal(t, want, res.Value)
	}
	assert.Equal(t, 0, s.Len())
}

func TestStack_NewestWinsAfterInterleaving(t *testing.T) {
	s := New[string](4)
	ctx := context.Background()

	s.Push("a")
	s.Push("b")
	assert.Equal(t, "b", s.Receive(ctx, time.Second).Value)

	s.Push("c")
	assert.Equal(t, "c", s.Receive(ctx, time.Second).Value)
	assert.Equal(t, "a", s.Receive(ctx, time.Second).Value)
}

func TestStack_TimesOut(t *testing.T) {
	s := New[int](2)

	start := time.Now()
	res := s.Receive(context.Background(), 30*time.Millisecond)

	assert.Equal(t, TimedOut, res.Outcome)
	assert.Zero(t, res.Value)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStack_CloseDrainsThenReportsClosed(t *testing.T) {
	s := New[int](4)
	s.Push(7)
	s.Close()
	s.Close()

	ctx := context.Background()
	res := s.Receive(ctx, time.Second)
	require.Equal(t, Delivered, res.Outcome)
	assert.Equal(t, 7, res.Value)

	assert.Equal(t, Closed, s.Receive(ctx, time.Second).Outcome)
	assert.False(t, s.Push(8), "push after close is rejected")
}

func TestStack_CloseWakesBlockedReceiver(t *testing.T) {
	s := New[int](1)
	done := make(chan Result[int], 1)

	go func() { done <- s.Receive(context.Background(), 5*time.Second) }()
	time.Sleep(10 * time.Millisecond)
	s.Close()

	select {
	case res := <-done:
		assert.Equal(t, Closed, res.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("receiver was not woken by Close")
	}
}

func TestStack_ContextCancel(t *testing.T) {
	s := New[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, Closed, s.Receive(ctx, time.Second).Outcome)
}

func TestStack_EvictsOldestWhenFull(t *testing.T) {
	s := New[int](3)
	for i := 1; i <= 5; i++ {
		require.True(t, s.Push(i))
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, uint64(2), s.Dropped())
	assert.Equal(t, uint64(5), s.Pushed())

	ctx := context.Background()
	var got []int
	for s.Len() > 0 {
		got = append(got, s.Receive(ctx, time.Second).Value)
	}
	assert.Equal(t, []int{5, 4, 3}, got)
}

func TestStack_DefaultCapacity(t *testing.T) {
	s := New[int](0)
	for i := 0; i < DefaultCapacity+1; i++ {
		s.Push(i)
	}
	assert.Equal(t, DefaultCapacity, s.Len())
	assert.Equal(t, uint64(1), s.Dropped())
}

func TestStack_BlockingReceiveGetsLaterPush(t *testing.T) {
	s := New[int](2)
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Push(42)
	}()

	res := s.Receive(context.Background(), 2*time.Second)
	require.Equal(t, Delivered, res.Outcome)
	assert.Equal(t, 42, res.Value)
}

func TestStack_ConcurrentProducerConsumer(t *testing.T) {
	const total = 500
	s := New[int](total)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			s.Push(i)
		}
		s.Close()
	}()

	seen := make(map[int]bool)
	ctx := context.Background()
	for {
		res := s.Receive(ctx, 2*time.Second)
		if res.Outcome != Delivered {
			assert.Equal(t, Closed, res.Outcome)
			break
		}
		assert.False(t, seen[res.Value], "value %d delivered twice", res.Value)
		seen[res.Value] = true
	}
	wg.Wait()

	assert.Len(t, seen, total, "nothing dropped when capacity covers the burst")
	assert.Zero(t, s.Dropped())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "timed out", TimedOut.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
