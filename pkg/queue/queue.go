// Package queue runs background jobs, such as sending the booking
// confirmation email after a payment completes.
//
//	// Define a job:
//	type ConfirmationJob struct{ BookingID uint }
//	func (ConfirmationJob) Name() string  { return "booking.confirmation" }
//	func (j ConfirmationJob) Handle() error { ... }
//
//	// Register once at boot, then dispatch from anywhere:
//	queue.Register(func() queue.Job { return &ConfirmationJob{} })
//	queue.Dispatch(ConfirmationJob{BookingID: 42})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
)

// Job is the unit of background work. Name must be stable across restarts
// because it keys deserialization.
type Job interface {
	Name() string
	Handle() error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Manager owns the driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many attempts a failing job gets.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialization. Call once at
// boot for every job type.
func Register(factory func() Job) {
	name := factory().Name()
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type jobEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// DispatchAfter pushes job onto the queue after a delay.
func DispatchAfter(job Job, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "job", job.Name(), "error", err)
		}
	})
}

func (m *Manager) push(job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}
	env, err := json.Marshal(jobEnvelope{Name: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// StartWorkers launches n workers that process jobs until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.process(raw)
	}
}

func (m *Manager) process(raw []byte) {
	var env jobEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Name]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job", "name", env.Name)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "name", env.Name, "error", err)
		return
	}

	m.runWithRetry(job)
}

func (m *Manager) runWithRetry(job Job) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"name", job.Name(), "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second)
			continue
		}
		metrics.QueueJobsProcessed.WithLabelValues("success").Inc()
		logger.Info("queue: job processed", "name", job.Name())
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
	m.persistFailed(job, lastErr, m.maxRetry)
	logger.Error("queue: job exhausted retries", "name", job.Name(), "error", lastErr)
}
