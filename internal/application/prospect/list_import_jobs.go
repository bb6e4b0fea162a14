package prospect

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

type ListImportJobsInput struct {
	Status string
	Limit  int
}

type ListImportJobs interface {
	Execute(ctx context.Context, in ListImportJobsInput) ([]JobOutput, error)
}

type importJobLister interface {
	List(ctx context.Context, filter domain.JobFilter) ([]domain.ImportJob, error)
}

type listImportJobs struct {
	repo importJobLister
}

func NewListImportJobs(repo importJobLister) ListImportJobs {
	return &listImportJobs{repo: repo}
}

func (uc *listImportJobs) Execute(ctx context.Context, in ListImportJobsInput) ([]JobOutput, error) {
	filter := domain.JobFilter{Limit: in.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	if raw := strings.TrimSpace(in.Status); raw != "" {
		status := domain.JobStatus(strings.ToLower(raw))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, raw)
		}
		filter.Status = &status
	}

	jobs, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListImportJobs, err)
	}

	out := make([]JobOutput, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobOutput(job))
	}
	return out, nil
}
