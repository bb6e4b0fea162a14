package prospect

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type DeleteImportJobInput struct {
	ID string
}

type DeleteImportJob interface {
	Execute(ctx context.Context, in DeleteImportJobInput) error
}

type importJobDeleter interface {
	Delete(ctx context.Context, jobID string) error
}

type importCanceler interface {
	Cancel(jobID string) bool
}

type deleteImportJob struct {
	repo     importJobDeleter
	buffers  domain.BufferStore
	importer importCanceler
	events   EventPublisher
}

// NewDeleteImportJob builds the delete use case. A running import of the deleted
// job is asked to stop and also notices the deletion at its next progress write.
func NewDeleteImportJob(repo importJobDeleter, buffers domain.BufferStore, importer importCanceler, events EventPublisher) DeleteImportJob {
	return &deleteImportJob{
		repo:     repo,
		buffers:  buffers,
		importer: importer,
		events:   publisherOrNoop(events),
	}
}

func (uc *deleteImportJob) Execute(ctx context.Context, in DeleteImportJobInput) error {
	if err := validateJobID(in.ID); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return ErrImportJobNotFound
		}
		return fmt.Errorf("%w: %v", ErrDeleteImportJob, err)
	}

	uc.buffers.Remove(in.ID)
	if uc.importer != nil {
		uc.importer.Cancel(in.ID)
	}
	uc.events.Publish(Event{Type: EventJobDeleted, JobID: in.ID})
	return nil
}
