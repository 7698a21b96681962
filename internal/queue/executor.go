package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
)

// QueuedExecutor implements services.CompletionExecutor by handing the
// transcript to a worker through the broker and blocking until the job
// resolves. Any rejection, worker failure or timeout surfaces as
// services.ErrUnavailable.
type QueuedExecutor struct {
	broker Broker
}

// NewQueuedExecutor creates an executor on broker.
func NewQueuedExecutor(broker Broker) *QueuedExecutor {
	return &QueuedExecutor{broker: broker}
}

func (e *QueuedExecutor) Execute(ctx context.Context, sessionKey string, transcript []models.Message) (models.Message, error) {
	job := Job{
		ID:         uuid.NewString(),
		SessionKey: sessionKey,
		Transcript: transcript,
	}

	if err := e.broker.Enqueue(ctx, job); err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", services.ErrUnavailable, err)
	}

	res, err := e.broker.Await(ctx, job.ID)
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", services.ErrUnavailable, err)
	}
	if res.Err != "" {
		return models.Message{}, fmt.Errorf("%w: %s", services.ErrUnavailable, res.Err)
	}

	return models.Message{Role: models.RoleAssistant, Content: res.Content}, nil
}
