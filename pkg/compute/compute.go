package compute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/model"
	"github.com/shamank/ocean-c2d-go/pkg/provider"
)

var (
	// ErrNoFreeEnvironment is returned when no environment has priceMin == 0.
	ErrNoFreeEnvironment = errors.New("no free compute environment")
	// ErrJobFailed is returned when a job reaches a failed terminal status.
	ErrJobFailed = errors.New("compute job failed")
	// ErrJobTimeout is returned when a job is still running after the wait budget.
	ErrJobTimeout = errors.New("compute job did not finish in time")
	// ErrJobNotReported is returned when a status answer lacks the requested job.
	ErrJobNotReported = errors.New("compute job not reported")
)

// SelectFreeEnvironment returns the first environment with priceMin == 0.
func SelectFreeEnvironment(envs []model.ComputeEnvironment) (model.ComputeEnvironment, error) {
	for _, env := range envs {
		if env.PriceMin == 0 {
			return env, nil
		}
	}
	return model.ComputeEnvironment{}, fmt.Errorf("%w among %d environments", ErrNoFreeEnvironment, len(envs))
}

// ValidUntil returns now+d as whole Unix seconds.
func ValidUntil(now time.Time, d time.Duration) int64 {
	return now.Add(d).Unix()
}

// StatusProvider reports the state of compute jobs.
type StatusProvider interface {
	ComputeStatus(ctx context.Context, consumer common.Address, jobID, documentID string) ([]model.ComputeJob, error)
}

// JobRef identifies a job for status queries.
type JobRef struct {
	Consumer   common.Address
	JobID      string
	DocumentID string
}

// Status fetches the current state of ref once.
func Status(ctx context.Context, p StatusProvider, ref JobRef) (*model.ComputeJob, error) {
	jobs, err := p.ComputeStatus(ctx, ref.Consumer, ref.JobID, ref.DocumentID)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].JobID == ref.JobID {
			return &jobs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s among %d jobs", ErrJobNotReported, ref.JobID, len(jobs))
}

// WaitForJob polls the job status with exponential backoff, starting at
// interval, until it reaches a terminal status or budget elapses.
// A failed terminal status is ErrJobFailed; running out of budget is
// ErrJobTimeout. The last observed job is returned in both cases. A 4xx
// Provider answer stops polling at once and is returned as is.
func WaitForJob(ctx context.Context, p StatusProvider, ref JobRef, interval, budget time.Duration) (*model.ComputeJob, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.Multiplier = 1.5
	b.MaxInterval = 20 * interval
	b.MaxElapsedTime = budget

	var (
		last  *model.ComputeJob
		fatal error
	)
	op := func() error {
		job, err := Status(ctx, p, ref)
		if err != nil {
			var perr *provider.Error
			if errors.As(err, &perr) && perr.Status < 500 {
				fatal = err
				return backoff.Permanent(err)
			}
			return err
		}
		last = job
		if !job.Status.IsTerminal() {
			return fmt.Errorf("job %s: %s", ref.JobID, job.Status)
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		zap.L().Debug("waiting for compute job", zap.String("job", ref.JobID), zap.Duration("next", next), zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if fatal != nil {
			return last, fmt.Errorf("compute status %s: %w", ref.JobID, fatal)
		}
		if ctx.Err() != nil {
			return last, ctx.Err()
		}
		return last, fmt.Errorf("%w: %s: %v", ErrJobTimeout, ref.JobID, err)
	}
	if last.Status.IsFailed() {
		return last, fmt.Errorf("%w: %s: %s", ErrJobFailed, ref.JobID, last.Status)
	}
	zap.L().Info("compute job finished", zap.String("job", ref.JobID), zap.Stringer("status", last.Status))
	return last, nil
}
