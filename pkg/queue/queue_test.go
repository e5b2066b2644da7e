package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/pkg/queue"
)

var echoed atomic.Int32

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) Name() string { return "test.echo" }
func (j *echoJob) Handle() error {
	echoed.Add(1)
	return nil
}

type failJob struct{}

func (failJob) Name() string { return "test.fail" }
func (failJob) Handle() error {
	return errors.New("always fails")
}

func init() {
	queue.Register(func() queue.Job { return &echoJob{} })
	queue.Register(func() queue.Job { return &failJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func TestDispatchAndProcess(t *testing.T) {
	before := echoed.Load()
	require.NoError(t, queue.Dispatch(&echoJob{Val: "hello"}))

	deadline := time.After(2 * time.Second)
	for echoed.Load() == before {
		select {
		case <-deadline:
			t.Fatal("job was never processed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(&failJob{}))

	deadline := time.After(3 * time.Second)
	for len(queue.FailedJobs()) == 0 {
		select {
		case <-deadline:
			t.Fatal("expected a recorded failed job")
		case <-time.After(50 * time.Millisecond):
		}
	}
	last := queue.FailedJobs()[len(queue.FailedJobs())-1]
	assert.Equal(t, "test.fail", last.JobName)
	assert.Equal(t, 1, last.Attempts)
}

func TestDispatchAfter(t *testing.T) {
	before := echoed.Load()
	queue.DispatchAfter(&echoJob{Val: "later"}, 50*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for echoed.Load() == before {
		select {
		case <-deadline:
			t.Fatal("delayed job was never processed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
