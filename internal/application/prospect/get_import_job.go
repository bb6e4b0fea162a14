package prospect

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type GetImportJobInput struct {
	ID string
}

type GetImportJob interface {
	Execute(ctx context.Context, in GetImportJobInput) (JobOutput, error)
}

type importJobGetter interface {
	Get(ctx context.Context, jobID string) (domain.ImportJob, error)
}

type getImportJob struct {
	repo importJobGetter
}

func NewGetImportJob(repo importJobGetter) GetImportJob {
	return &getImportJob{repo: repo}
}

func (uc *getImportJob) Execute(ctx context.Context, in GetImportJobInput) (JobOutput, error) {
	if err := validateJobID(in.ID); err != nil {
		return JobOutput{}, err
	}

	job, err := uc.repo.Get(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return JobOutput{}, ErrImportJobNotFound
		}
		return JobOutput{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}

	return toJobOutput(job), nil
}

func validateJobID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidJobID
	}
	return nil
}
