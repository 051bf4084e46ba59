// Package queue provides background job processing for Bazaar.
//
// Usage:
//
//	// Define a job
//	type OrderCompletedJob struct { OrderID uint }
//	func (j OrderCompletedJob) Handle() error { ... }
//
//	// Register once at boot (name must match the dynamic type)
//	queue.Register("jobs.OrderCompletedJob", func() queue.Job { return &OrderCompletedJob{} })
//
//	// Dispatch
//	queue.Dispatch(OrderCompletedJob{OrderID: 7})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle() error
}

// Named lets a job override the type name used for serialization.
type Named interface {
	JobName() string
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Name     string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is available or ctx is done. A (nil, nil)
	// return means "nothing ready, poll again".
	Pop(ctx context.Context) ([]byte, error)
}

// ------------------- Manager -------------------

type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
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

// SetMaxRetry sets how many times a failing job is retried.
func SetMaxRetry(n int) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.maxRetry = n
}

// Register makes a job type available for deserialization by name.
// Call this once at boot for every job type you define.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

// FailedJobs returns a copy of the failed-job list.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	return append([]FailedJob(nil), defaultManager.failed...)
}

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// DispatchAfter pushes job onto the queue after a delay.
func DispatchAfter(job Job, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

func (m *Manager) push(job Job) error {
	name := jobName(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}

	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// ------------------- Workers -------------------

// StartWorkers launches n goroutines that pop and process jobs until ctx
// is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.work(ctx)
	}
}

func (m *Manager) work(ctx context.Context) {
	for {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("queue: pop failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if raw == nil {
			continue // poll timeout
		}

		m.process(raw)
	}
}

func (m *Manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	maxRetry := m.maxRetry
	m.mu.RUnlock()

	if !ok {
		logger.Error("queue: unknown job type", "type", env.Type)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		job := factory()
		if err := json.Unmarshal(env.Payload, job); err != nil {
			logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
			return
		}

		if lastErr = job.Handle(); lastErr == nil {
			metrics.QueueJobsProcessed.WithLabelValues("success").Inc()
			return
		}

		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		time.Sleep(time.Duration(attempt) * time.Second) // linear backoff
	}

	metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Name:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: maxRetry,
	})
	m.mu.Unlock()
}
