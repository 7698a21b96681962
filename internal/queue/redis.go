package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	jobsKey         = "coinchat:jobs"
	resultKeyPrefix = "coinchat:result:"
)

// ErrAwaitTimeout is returned when a job does not resolve within the
// broker's wait budget.
var ErrAwaitTimeout = errors.New("timed out waiting for completion result")

// RedisBroker moves jobs through a redis list and returns results on a
// per-job reply list. Result keys expire so abandoned jobs don't leak.
type RedisBroker struct {
	rdb          *redis.Client
	awaitTimeout time.Duration
	resultTTL    time.Duration
}

// NewRedisBroker creates a broker on rdb. awaitTimeout bounds how long
// Await blocks for a result.
func NewRedisBroker(rdb *redis.Client, awaitTimeout time.Duration) *RedisBroker {
	return &RedisBroker{
		rdb:          rdb,
		awaitTimeout: awaitTimeout,
		resultTTL:    2 * awaitTimeout,
	}
}

func (b *RedisBroker) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}
	if err := b.rdb.LPush(ctx, jobsKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}
	return nil
}

func (b *RedisBroker) Await(ctx context.Context, jobID string) (Result, error) {
	vals, err := b.rdb.BRPop(ctx, b.awaitTimeout, resultKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Result{}, ErrAwaitTimeout
		}
		return Result{}, fmt.Errorf("failed to await job %s: %w", jobID, err)
	}
	// BRPop returns [key, value].
	var res Result
	if err := json.Unmarshal([]byte(vals[1]), &res); err != nil {
		return Result{}, fmt.Errorf("failed to unmarshal result for job %s: %w", jobID, err)
	}
	return res, nil
}

func (b *RedisBroker) Next(ctx context.Context) (Job, error) {
	// Zero timeout blocks until a job arrives or ctx is cancelled.
	vals, err := b.rdb.BRPop(ctx, 0, jobsKey).Result()
	if err != nil {
		return Job{}, fmt.Errorf("failed to pop job: %w", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
		return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}

func (b *RedisBroker) Resolve(ctx context.Context, jobID string, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result for job %s: %w", jobID, err)
	}
	key := resultKey(jobID)
	if err := b.rdb.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push result for job %s: %w", jobID, err)
	}
	if err := b.rdb.Expire(ctx, key, b.resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to expire result key for job %s: %w", jobID, err)
	}
	return nil
}

func resultKey(jobID string) string {
	return resultKeyPrefix + jobID
}
