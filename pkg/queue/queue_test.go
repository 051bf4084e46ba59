package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var processed atomic.Int64

type countJob struct {
	Delta int64 `json:"delta"`
	Fail  bool  `json:"fail"`
}

func (j *countJob) JobName() string { return "test.count" }

func (j *countJob) Handle() error {
	if j.Fail {
		return errors.New("intentional failure")
	}
	processed.Add(j.Delta)
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	SetDriver(NewMemoryDriver())
	SetMaxRetry(1)
	Register("test.count", func() Job { return &countJob{} })
	processed.Store(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, Dispatch(&countJob{Delta: 2}))
	}

	assert.Eventually(t, func() bool {
		return processed.Load() == 10
	}, 3*time.Second, 10*time.Millisecond)
}

func TestFailedJobsAreRecorded(t *testing.T) {
	SetDriver(NewMemoryDriver())
	SetMaxRetry(1)
	Register("test.count", func() Job { return &countJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(&countJob{Fail: true}))

	assert.Eventually(t, func() bool {
		for _, f := range FailedJobs() {
			if f.Name == "test.count" {
				return true
			}
		}
		return false
	}, 3*time.Second, 10*time.Millisecond)
}

func TestUnknownJobTypeIsDropped(t *testing.T) {
	d := NewMemoryDriver()
	SetDriver(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, d.Push([]byte(`{"type":"no.such.job","payload":{}}`)))

	// Worker must not crash; follow-up jobs still process.
	Register("test.count", func() Job { return &countJob{} })
	processed.Store(0)
	require.NoError(t, Dispatch(&countJob{Delta: 1}))

	assert.Eventually(t, func() bool {
		return processed.Load() == 1
	}, 3*time.Second, 10*time.Millisecond)
}
