package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// review submissions for asynchronous processing. It decouples the submission
// source (an HTTP request or a webhook) from the pipeline execution.
type JobDispatcher interface {
	// Dispatch queues a submission. It returns an error when the queue is full,
	// providing a mechanism for backpressure.
	Dispatch(ctx context.Context, sub *Submission) error
	// Stop drains the queue and waits for in-flight runs to finish.
	Stop()
}

// Job is a single executable unit of work triggered by a Submission.
type Job interface {
	Run(ctx context.Context, sub *Submission) (*Report, error)
}
