package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/pkg/workerpool"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.EqualValues(t, n, count.Load())
}

func TestPoolFull(t *testing.T) {
	// Size-1 pool whose only worker is blocked.
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started

	// Fill the 2-slot buffer.
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	err := pool.Submit(func() {})
	assert.True(t, errors.Is(err, workerpool.ErrPoolFull))

	close(blocker)
}

func TestPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	err := pool.Submit(func() {})
	assert.True(t, errors.Is(err, workerpool.ErrPoolClosed))
}

func TestPoolRecoversPanic(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	_ = pool.SubmitWait(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	// The pool must still accept and run tasks afterwards.
	done := make(chan struct{})
	_ = pool.SubmitWait(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not recover from panic")
	}
}
