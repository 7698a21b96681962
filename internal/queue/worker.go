package queue

import (
	"context"
	"log"
	"time"

	"coinchat-backend/internal/metrics"
	"coinchat-backend/internal/services"
)

// Worker consumes queued completion jobs and resolves each with a single
// gateway call. There is no retry here; the failure budget of the queued
// variant is exactly one attempt per job.
type Worker struct {
	broker  Broker
	gateway services.CompletionGateway
}

// NewWorker creates a Worker reading from broker.
func NewWorker(broker Broker, gateway services.CompletionGateway) *Worker {
	return &Worker{broker: broker, gateway: gateway}
}

// Run consumes jobs until ctx is cancelled. Broker hiccups and malformed
// jobs are logged and skipped, never fatal.
func (w *Worker) Run(ctx context.Context) {
	log.Println("Completion worker started.")
	for {
		job, err := w.broker.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Completion worker stopped.")
				return
			}
			log.Printf("Worker failed to fetch next job: %v", err)
			time.Sleep(time.Second)
			continue
		}

		metrics.CompletionAttempts.Inc()
		var res Result
		reply, err := w.gateway.Complete(ctx, job.Transcript)
		if err != nil {
			log.Printf("Worker completion failed for job %s (session %s): %v", job.ID, job.SessionKey, err)
			res.Err = err.Error()
		} else {
			res.Content = reply.Content
		}

		if err := w.broker.Resolve(ctx, job.ID, res); err != nil {
			log.Printf("Worker failed to resolve job %s: %v", job.ID, err)
		}
	}
}
