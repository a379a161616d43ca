package memqueue

import (
	"context"
	"testing"
	"time"

	"github.com/dukex/integrail/internal/queue"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := New()
	defer q.Close()

	ctx := context.Background()

	if err := q.Enqueue(ctx, queue.Job{WorkflowID: "wf-1"}); err != nil {
		t.Fatalf("Enqueue() unexpected error: %v", err)
	}

	if err := q.Enqueue(ctx, queue.Job{WorkflowID: "wf-2"}); err != nil {
		t.Fatalf("Enqueue() unexpected error: %v", err)
	}

	first, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue() unexpected error: %v", err)
	}

	if first.WorkflowID != "wf-1" {
		t.Fatalf("first.WorkflowID = %q, want wf-1", first.WorkflowID)
	}

	if first.ID == "" {
		t.Fatal("Enqueue() should assign a job id when absent")
	}

	second, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue() unexpected error: %v", err)
	}

	if second.WorkflowID != "wf-2" {
		t.Fatalf("second.WorkflowID = %q, want wf-2", second.WorkflowID)
	}
}

func TestDequeueRespectsContextCancellation(t *testing.T) {
	q := New()
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("Dequeue() expected context-deadline error on empty queue")
	}
}

func TestRetryRedeliversAfterBackoff(t *testing.T) {
	q := New()
	defer q.Close()

	ctx := context.Background()

	job := queue.Job{ID: "job-1", WorkflowID: "wf-1", AttemptsMade: 1}
	if err := q.Retry(ctx, job); err != nil {
		t.Fatalf("Retry() unexpected error: %v", err)
	}

	dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	redelivered, err := q.Dequeue(dctx)
	if err != nil {
		t.Fatalf("Dequeue() after Retry() unexpected error: %v", err)
	}

	if redelivered.ID != "job-1" {
		t.Fatalf("redelivered.ID = %q, want job-1", redelivered.ID)
	}
}

func TestRetryDropsJobPastMaxAttempts(t *testing.T) {
	q := New()
	defer q.Close()

	ctx := context.Background()

	job := queue.Job{ID: "job-1", WorkflowID: "wf-1", AttemptsMade: queue.MaxAttempts}
	if err := q.Retry(ctx, job); err != nil {
		t.Fatalf("Retry() unexpected error: %v", err)
	}

	dctx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(dctx); err == nil {
		t.Fatal("Dequeue() expected no redelivery once attempts are exhausted")
	}
}

func TestRemoveJobsForFiltersDelayedByWorkflow(t *testing.T) {
	q := New()
	defer q.Close()

	ctx := context.Background()

	_ = q.Retry(ctx, queue.Job{ID: "a", WorkflowID: "wf-1", AttemptsMade: 1})
	_ = q.Retry(ctx, queue.Job{ID: "b", WorkflowID: "wf-2", AttemptsMade: 1})

	if err := q.RemoveJobsFor(ctx, "wf-1"); err != nil {
		t.Fatalf("RemoveJobsFor() unexpected error: %v", err)
	}

	q.mu.Lock()
	remaining := len(q.delayed)
	q.mu.Unlock()

	if remaining != 1 {
		t.Fatalf("remaining delayed jobs = %d, want 1", remaining)
	}

	q.mu.Lock()
	wf := q.delayed[0].job.WorkflowID
	q.mu.Unlock()

	if wf != "wf-2" {
		t.Fatalf("remaining job workflow = %q, want wf-2", wf)
	}
}
