package queue

import (
	"context"

	"coinchat-backend/internal/models"
)

// Job carries one completion request through the broker. The transcript is
// snapshotted at enqueue time.
type Job struct {
	ID         string           `json:"id"`
	SessionKey string           `json:"sessionKey"`
	Transcript []models.Message `json:"transcript"`
}

// Result resolves a Job: either the assistant reply content or an error
// description set by the worker.
type Result struct {
	Content string `json:"content"`
	Err     string `json:"error,omitempty"`
}

// Broker is the durable hand-off between the request handler that accepts a
// chat message and the worker that executes the completion. Each job is
// consumed exactly once by a worker and resolved exactly once back to the
// caller awaiting it.
type Broker interface {
	// Enqueue makes the job available to a worker.
	Enqueue(ctx context.Context, job Job) error

	// Await blocks until the job resolves or the broker's wait budget runs
	// out.
	Await(ctx context.Context, jobID string) (Result, error)

	// Next blocks until a job is available and removes it from the queue.
	Next(ctx context.Context) (Job, error)

	// Resolve hands the job's result back to the caller awaiting it.
	Resolve(ctx context.Context, jobID string, res Result) error
}
