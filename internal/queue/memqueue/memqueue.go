// Package memqueue is an in-memory queue.Queue used by unit tests, the
// Redis-backed counterpart's in-memory sibling for local development
// without external dependencies.
package memqueue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/integrail/internal/queue"
)

type delayedJob struct {
	job    queue.Job
	fireAt time.Time
}

// Queue is a channel-backed FIFO with a goroutine moving due delayed jobs
// back onto the waiting channel.
type Queue struct {
	waiting chan queue.Job

	mu      sync.Mutex
	delayed []delayedJob

	stop chan struct{}
	once sync.Once
}

var _ queue.Queue = (*Queue)(nil)

// New returns a ready Queue with its mover goroutine running.
func New() *Queue {
	q := &Queue{
		waiting: make(chan queue.Job, 1024),
		stop:    make(chan struct{}),
	}

	go q.moveDelayed()

	return q
}

func (q *Queue) Enqueue(ctx context.Context, job queue.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	select {
	case q.waiting <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Dequeue(ctx context.Context) (*queue.Job, error) {
	select {
	case job := <-q.waiting:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) Ack(_ context.Context, _ queue.Job) error {
	return nil
}

func (q *Queue) Retry(ctx context.Context, job queue.Job) error {
	if job.AttemptsMade >= queue.MaxAttempts {
		return nil
	}

	delay := queue.Backoff(job.AttemptsMade - 1)

	q.mu.Lock()
	q.delayed = append(q.delayed, delayedJob{job: job, fireAt: time.Now().Add(delay)})
	q.mu.Unlock()

	return nil
}

func (q *Queue) RemoveJobsFor(_ context.Context, workflowID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.delayed[:0]

	for _, d := range q.delayed {
		if d.job.WorkflowID != workflowID {
			kept = append(kept, d)
		}
	}

	q.delayed = kept

drain:
	for n := len(q.waiting); n > 0; n-- {
		select {
		case job := <-q.waiting:
			if job.WorkflowID != workflowID {
				q.waiting <- job
			}
		default:
			break drain
		}
	}

	return nil
}

func (q *Queue) Close() error {
	q.once.Do(func() { close(q.stop) })

	return nil
}

func (q *Queue) moveDelayed() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case now := <-ticker.C:
			q.mu.Lock()

			remaining := q.delayed[:0]

			for _, d := range q.delayed {
				if !now.Before(d.fireAt) {
					q.waiting <- d.job
				} else {
					remaining = append(remaining, d)
				}
			}

			q.delayed = remaining

			q.mu.Unlock()
		}
	}
}
