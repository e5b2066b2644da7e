// Package workerpool bounds concurrent goroutines. The payment engine
// runs its verification simulations through a pool so a burst of
// confirmations cannot spawn unbounded goroutines.
//
//	pool := workerpool.New(50)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(verify); errors.Is(err, workerpool.ErrPoolFull) {
//	    // backpressure: reject or retry later
//	}
package workerpool

import (
	"errors"
	"sync"

	"github.com/dnguyen-dev/bistro/pkg/logger"
)

// ErrPoolFull means all workers are busy and the task buffer is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed means Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
}

// New creates a Pool with the given number of workers. The task buffer
// holds 2x the worker count to absorb bursts.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking. Returns ErrPoolFull when the
// buffer is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a slot frees up or the pool closes.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for in-flight work. Safe to
// call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun recovers panics so one bad task cannot kill a worker.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
