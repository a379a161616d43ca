// Package redisqueue is the production queue.Queue: a Redis list for
// waiting jobs and a sorted set (scored by retry_at_unix) for delayed
// retries, with a mover goroutine requeueing jobs once due. Grounded on
// the teacher's pkg/triggers/queue.Trigger, which already talks to Redis
// through redis.UniversalClient.
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dukex/integrail/internal/queue"
)

const (
	waitingKeyPrefix = "integrail:queue:waiting:"
	delayedKeyPrefix = "integrail:queue:delayed:"
	deadKeyPrefix    = "integrail:queue:dead:"

	moveInterval = time.Second
)

// Queue is a Redis-backed queue.Queue for a named queue instance.
type Queue struct {
	client redis.UniversalClient
	name   string
	logger *slog.Logger

	stop chan struct{}
}

var _ queue.Queue = (*Queue)(nil)

// New wraps client as a Queue named name, starting its delayed-job mover
// goroutine.
func New(client redis.UniversalClient, name string, logger *slog.Logger) *Queue {
	q := &Queue{
		client: client,
		name:   name,
		logger: logger.With("module", "redisqueue", "queue", name),
		stop:   make(chan struct{}),
	}

	go q.moveDueDelayed()

	return q
}

func (q *Queue) waitingKey() string { return waitingKeyPrefix + q.name }
func (q *Queue) delayedKey() string { return delayedKeyPrefix + q.name }
func (q *Queue) deadKey() string    { return deadKeyPrefix + q.name }

// Enqueue pushes job onto the waiting list.
func (q *Queue) Enqueue(ctx context.Context, job queue.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	if err := q.client.LPush(ctx, q.waitingKey(), payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	return nil
}

// Dequeue blocks (up to 5s at a time, looping until ctx is done) waiting
// for a job on the waiting list.
func (q *Queue) Dequeue(ctx context.Context) (*queue.Job, error) {
	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, q.waitingKey()).Result()
		if err == redis.Nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				continue
			}
		}

		if err != nil {
			return nil, fmt.Errorf("dequeue job: %w", err)
		}

		var job queue.Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.logger.ErrorContext(ctx, "dropping malformed job payload", "error", err)

			continue
		}

		return &job, nil
	}
}

// Ack is a no-op: a dequeued job is already removed from the waiting
// list by BRPOP.
func (q *Queue) Ack(_ context.Context, _ queue.Job) error {
	return nil
}

// Retry schedules job for a delayed requeue with exponential backoff, or
// moves it to the dead set once MaxAttempts is reached.
func (q *Queue) Retry(ctx context.Context, job queue.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	if job.AttemptsMade >= queue.MaxAttempts {
		if err := q.client.LPush(ctx, q.deadKey(), payload).Err(); err != nil {
			return fmt.Errorf("move job to dead set: %w", err)
		}

		return nil
	}

	fireAt := time.Now().Add(queue.Backoff(job.AttemptsMade - 1))

	if err := q.client.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(fireAt.Unix()),
		Member: payload,
	}).Err(); err != nil {
		return fmt.Errorf("schedule delayed retry: %w", err)
	}

	return nil
}

// RemoveJobsFor scans the waiting, delayed and dead sets and drops every
// job belonging to workflowID.
func (q *Queue) RemoveJobsFor(ctx context.Context, workflowID string) error {
	if err := q.filterList(ctx, q.waitingKey(), workflowID); err != nil {
		return err
	}

	if err := q.filterZSet(ctx, q.delayedKey(), workflowID); err != nil {
		return err
	}

	return q.filterList(ctx, q.deadKey(), workflowID)
}

func (q *Queue) filterList(ctx context.Context, key, workflowID string) error {
	items, err := q.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("scan queue list %s: %w", key, err)
	}

	for _, raw := range items {
		var job queue.Job
		if err := json.Unmarshal([]byte(raw), &job); err == nil && job.WorkflowID == workflowID {
			q.client.LRem(ctx, key, 1, raw)
		}
	}

	return nil
}

func (q *Queue) filterZSet(ctx context.Context, key, workflowID string) error {
	items, err := q.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("scan queue zset %s: %w", key, err)
	}

	for _, raw := range items {
		var job queue.Job
		if err := json.Unmarshal([]byte(raw), &job); err == nil && job.WorkflowID == workflowID {
			q.client.ZRem(ctx, key, raw)
		}
	}

	return nil
}

func (q *Queue) moveDueDelayed() {
	ticker := time.NewTicker(moveInterval)
	defer ticker.Stop()

	ctx := context.Background()

	for {
		select {
		case <-q.stop:
			return
		case now := <-ticker.C:
			due, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
				Min: "0", Max: fmt.Sprintf("%d", now.Unix()),
			}).Result()
			if err != nil {
				q.logger.ErrorContext(ctx, "scan delayed jobs", "error", err)

				continue
			}

			for _, raw := range due {
				if err := q.client.LPush(ctx, q.waitingKey(), raw).Err(); err == nil {
					q.client.ZRem(ctx, q.delayedKey(), raw)
				}
			}
		}
	}
}

// Close stops the mover goroutine.
func (q *Queue) Close() error {
	close(q.stop)

	return nil
}
