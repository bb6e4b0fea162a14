package prospect

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

// RetryController replays a job's stored criteria under the same job id.
type RetryController struct {
	orchestrator *SearchOrchestrator
	logger       *zap.Logger
}

func NewRetryController(orchestrator *SearchOrchestrator, logger *zap.Logger) *RetryController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryController{orchestrator: orchestrator, logger: logger}
}

// Retry accepts failed jobs and pending or previewing jobs whose browsing session
// is gone. A previous buffer is always discarded, never merged.
func (r *RetryController) Retry(ctx context.Context, jobID string) (SearchOutput, error) {
	o := r.orchestrator

	job, err := o.getJob(ctx, jobID)
	if err != nil {
		return SearchOutput{}, err
	}

	switch job.Status {
	case domain.StatusFailed:
	case domain.StatusPending, domain.StatusPreviewing:
		if _, live := o.buffers.Get(jobID); live {
			return SearchOutput{Job: toJobOutput(job)}, fmt.Errorf("%w: job is %s with an active session", ErrRetryNotAllowed, job.Status)
		}
	default:
		return SearchOutput{Job: toJobOutput(job)}, fmt.Errorf("%w: job is %s", ErrRetryNotAllowed, job.Status)
	}

	criteria, err := domain.DecodeCriteria(job.SearchCriteria)
	if err != nil {
		return SearchOutput{Job: toJobOutput(job)}, fmt.Errorf("%w: %v", ErrInvalidStoredQuery, err)
	}

	r.logger.Info("retrying import job",
		zap.String("job_id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Bool("list_mode", criteria.IsList()),
	)

	o.buffers.Remove(jobID)
	return o.execute(ctx, job, criteria)
}
