package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_FIFOPerKey(t *testing.T) {
	seq := NewSequencer()
	ctx := context.Background()

	var mu sync.Mutex
	var order []int
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = seq.Do(ctx, "cart-1", func(context.Context) error {
			close(started)
			<-release
			mu.Lock()
			order = append(order, 0)
			mu.Unlock()
			return nil
		})
	}()
	<-started

	// Queue the rest one at a time so issue order is well defined.
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = seq.Do(ctx, "cart-1", func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}(i)
		require.Eventually(t, func() bool { return seq.Pending("cart-1") == i+1 }, time.Second, time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Zero(t, seq.Pending("cart-1"), "idle queues are dropped")
}

func TestSequencer_KeysAreIndependent(t *testing.T) {
	seq := NewSequencer()
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = seq.Do(ctx, "cart-1", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = seq.Do(ctx, "cart-2", func(context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("operation on another key was blocked")
	}
}

func TestSequencer_CancelledWaiterKeepsOrder(t *testing.T) {
	seq := NewSequencer()
	release := make(chan struct{})
	started := make(chan struct{})
	var firstDone, thirdRan bool
	var mu sync.Mutex

	go func() {
		_ = seq.Do(context.Background(), "cart-1", func(context.Context) error {
			close(started)
			<-release
			mu.Lock()
			firstDone = true
			mu.Unlock()
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	skipped := true
	go func() {
		errc <- seq.Do(ctx, "cart-1", func(context.Context) error {
			skipped = false
			return nil
		})
	}()
	require.Eventually(t, func() bool { return seq.Pending("cart-1") == 2 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	thirdDone := make(chan struct{})
	go func() {
		_ = seq.Do(context.Background(), "cart-1", func(context.Context) error {
			mu.Lock()
			thirdRan = firstDone
			mu.Unlock()
			return nil
		})
		close(thirdDone)
	}()

	close(release)
	<-thirdDone

	assert.True(t, skipped, "cancelled operation never runs")
	mu.Lock()
	assert.True(t, thirdRan, "later operation still waits for the first")
	mu.Unlock()
}
