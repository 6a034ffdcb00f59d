package jobs

import (
	"context"
	"fmt"
	"time"

	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/metrics"
	"lawdesk-backend/internal/repository"
	"lawdesk-backend/internal/service"
)

const (
	JobPendingDigest = "pending-join-request-digest"

	jobTimeout = 5 * time.Minute
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos       *repository.Registry
	email       service.EmailService
	digestAfter time.Duration
	now         func() time.Time
}

// NewJobRunner creates a job runner. digestAfter is the minimum age of a
// pending request before it appears in an owner's digest.
func NewJobRunner(repos *repository.Registry, email service.EmailService, digestAfter time.Duration) *JobRunner {
	return &JobRunner{
		repos:       repos,
		email:       email,
		digestAfter: digestAfter,
		now:         time.Now,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		metrics.JobRuns.WithLabelValues(jobName, metrics.Result(err)).Inc()
	}()

	logger.Info("Starting job", "job", jobName)
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}

// Run executes a job by name once.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobPendingDigest:
		return jr.runWithRecovery(JobPendingDigest, jr.sendPendingDigest)
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
}
