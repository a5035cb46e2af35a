package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/merge-warden/internal/core"
)

const queueSize = 100

// dispatcher implements core.JobDispatcher and manages a pool of worker goroutines
// for running submissions in the background.
type dispatcher struct {
	reviewJob  core.Job              // Job implementation executed by each worker.
	jobQueue   chan *core.Submission // Queue of pending submissions.
	maxWorkers int                   // Number of concurrent workers.
	wg         sync.WaitGroup        // Tracks active workers for graceful shutdown.
	logger     *slog.Logger          // Logger instance for the dispatcher.
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(reviewJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		reviewJob:  reviewJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.Submission, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes submissions from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting review worker", "id", workerID)

	for sub := range d.jobQueue {
		d.process(workerID, sub)
	}

	d.logger.Info("shutting down review worker", "id", workerID)
}

// process runs a review job for one submission. Workers are detached from the
// request that queued the submission.
func (d *dispatcher) process(workerID int, sub *core.Submission) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"pr_link", sub.PRLink,
	)

	report, err := d.reviewJob.Run(context.Background(), sub)
	if err != nil {
		d.logger.Error("review job failed",
			"pr_link", sub.PRLink,
			"error", err,
		)
		return
	}
	d.logger.Info("review job finished", "worker_id", workerID, "pr_link", sub.PRLink, "status", report.Status)
}

// Dispatch queues a submission for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, sub *core.Submission) error {
	if err := ValidateSubmission(sub); err != nil {
		return err
	}
	d.logger.Info("queuing review job", "pr_link", sub.PRLink, "requested_by", sub.RequestedBy)

	select {
	case d.jobQueue <- sub:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new review job")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
