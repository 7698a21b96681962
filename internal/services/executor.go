package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"coinchat-backend/internal/metrics"
	"coinchat-backend/internal/models"
)

// CompletionGateway performs a single outbound call to the upstream
// chat-completion API. Implementations carry fixed model parameters and a
// hard per-call timeout, and perform no retry of their own.
type CompletionGateway interface {
	Complete(ctx context.Context, transcript []models.Message) (models.Message, error)
}

// CompletionExecutor obtains an assistant reply for a full transcript.
// Variants differ in how they spend the failure budget: inline retries
// against the gateway, or a single attempt delegated to a queue worker.
type CompletionExecutor interface {
	Execute(ctx context.Context, sessionKey string, transcript []models.Message) (models.Message, error)
}

// InlineRetryingExecutor calls the gateway directly, retrying transient
// failures up to a fixed number of attempts with a fixed delay between them.
type InlineRetryingExecutor struct {
	gateway     CompletionGateway
	maxAttempts int
	retryDelay  time.Duration
	sleep       func(time.Duration)
}

func NewInlineRetryingExecutor(gateway CompletionGateway, maxAttempts int, retryDelay time.Duration) *InlineRetryingExecutor {
	return &InlineRetryingExecutor{
		gateway:     gateway,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		sleep:       time.Sleep,
	}
}

func (e *InlineRetryingExecutor) Execute(ctx context.Context, sessionKey string, transcript []models.Message) (models.Message, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		metrics.CompletionAttempts.Inc()
		msg, err := e.gateway.Complete(ctx, transcript)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		log.Printf("Completion attempt %d/%d failed for session %s: %v", attempt, e.maxAttempts, sessionKey, err)
		if attempt < e.maxAttempts {
			e.sleep(e.retryDelay)
		}
	}
	return models.Message{}, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
