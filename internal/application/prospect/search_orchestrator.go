package prospect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

type SearchFromListInput struct {
	ListID   string
	ListType string
}

// SearchOrchestrator drives directory calls for a job, keeps its result buffer and
// moves the job between pending, previewing and failed.
type SearchOrchestrator struct {
	jobs      domain.ImportJobStore
	directory domain.DirectoryClient
	buffers   domain.BufferStore
	events    EventPublisher
	logger    *zap.Logger
}

func NewSearchOrchestrator(jobs domain.ImportJobStore, directory domain.DirectoryClient, buffers domain.BufferStore, events EventPublisher, logger *zap.Logger) *SearchOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchOrchestrator{
		jobs:      jobs,
		directory: directory,
		buffers:   buffers,
		events:    publisherOrNoop(events),
		logger:    logger,
	}
}

// Search creates a job for the query and fetches its first page. When the search
// fails after the job exists, the returned output still carries the failed job.
func (o *SearchOrchestrator) Search(ctx context.Context, query domain.QueryCriteria) (SearchOutput, error) {
	query.Keywords = strings.TrimSpace(query.Keywords)
	return o.start(ctx, domain.Criteria{Query: &query})
}

func (o *SearchOrchestrator) SearchFromList(ctx context.Context, in SearchFromListInput) (SearchOutput, error) {
	listType, err := domain.ParseListType(in.ListType)
	if err != nil {
		return SearchOutput{}, err
	}
	return o.start(ctx, domain.Criteria{List: &domain.ListCriteria{
		ListID:   strings.TrimSpace(in.ListID),
		ListType: listType,
	}})
}

func (o *SearchOrchestrator) start(ctx context.Context, criteria domain.Criteria) (SearchOutput, error) {
	encoded, err := domain.EncodeCriteria(criteria)
	if err != nil {
		return SearchOutput{}, err
	}

	job, err := o.jobs.Create(ctx, encoded)
	if err != nil {
		return SearchOutput{}, fmt.Errorf("%w: %v", ErrCreateImportJob, err)
	}
	o.publish(job)

	return o.execute(ctx, job, criteria)
}

// execute fetches page 1 for criteria and binds a fresh buffer to job. It is shared
// by the first search and by retries, which keep the job identity.
func (o *SearchOrchestrator) execute(ctx context.Context, job domain.ImportJob, criteria domain.Criteria) (SearchOutput, error) {
	log := o.logger.With(zap.String("job_id", job.ID), zap.String("target", string(criteria.Target())))

	buffer := domain.NewResultBuffer(uuid.NewString(), job.ID, criteria)

	page, err := o.fetchFirstPage(ctx, criteria, buffer, log)
	if err != nil {
		return o.fail(ctx, job, err)
	}
	if len(page.Records) == 0 {
		return o.fail(ctx, job, emptyResult(criteria))
	}

	added, err := buffer.Merge(1, page)
	if err != nil {
		return o.fail(ctx, job, err)
	}

	total := int64(buffer.Len())
	updated, err := o.jobs.Transition(ctx, job.ID, domain.StatusPreviewing, domain.TransitionFields{TotalResults: &total})
	if err != nil {
		return SearchOutput{Job: toJobOutput(job)}, fmt.Errorf("%w: %w", ErrUpdateImportJob, err)
	}
	o.buffers.Put(buffer)
	o.publish(updated)

	log.Info("search previewing",
		zap.Int("buffered", buffer.Len()),
		zap.Int64("total_entries", buffer.Pagination().TotalEntries),
		zap.Bool("used_fallback", buffer.UsedFallback()),
	)

	return snapshotOutput(updated, buffer, added), nil
}

func (o *SearchOrchestrator) fetchFirstPage(ctx context.Context, criteria domain.Criteria, buffer *domain.ResultBuffer, log *zap.Logger) (domain.SearchPage, error) {
	if criteria.IsList() {
		return o.directory.SearchByList(ctx, criteria.List.ListID, criteria.List.ListType, 1)
	}

	page, err := o.directory.Search(ctx, *criteria.Query, 1)
	if err != nil {
		return domain.SearchPage{}, err
	}
	if len(page.Records) > 0 || criteria.Query.Fallback == nil {
		return page, nil
	}

	log.Info("primary query returned no records, trying fallback query")
	fallback := *criteria.Query.Fallback
	page, err = o.directory.Search(ctx, fallback, 1)
	if err != nil {
		return domain.SearchPage{}, err
	}
	buffer.UseQuery(&fallback, true)
	return page, nil
}

// LoadMore requests the page after the last merged one and appends unseen records.
func (o *SearchOrchestrator) LoadMore(ctx context.Context, jobID string) (SearchOutput, error) {
	job, err := o.getJob(ctx, jobID)
	if err != nil {
		return SearchOutput{}, err
	}

	buffer, ok := o.buffers.Get(jobID)
	if !ok {
		return SearchOutput{Job: toJobOutput(job)}, ErrNoActiveSession
	}
	if job.Status != domain.StatusPreviewing {
		return SearchOutput{Job: toJobOutput(job)}, &domain.IllegalTransitionError{JobID: job.ID, From: job.Status, To: domain.StatusPreviewing}
	}

	pageNumber, err := buffer.BeginLoad()
	if err != nil {
		return snapshotOutput(job, buffer, nil), err
	}
	defer buffer.EndLoad()

	log := o.logger.With(zap.String("job_id", job.ID), zap.Int("page", pageNumber))

	page, err := o.fetchPage(ctx, buffer, pageNumber)
	if err != nil {
		log.Warn("load more failed", zap.Error(err))
		return o.fail(ctx, job, err)
	}

	if current, live := o.buffers.Get(jobID); !live || current != buffer {
		return SearchOutput{Job: toJobOutput(job)}, ErrStaleSession
	}

	added, err := buffer.Merge(pageNumber, page)
	if err != nil {
		return snapshotOutput(job, buffer, nil), err
	}

	total := int64(buffer.Len())
	updated, err := o.jobs.Transition(ctx, job.ID, domain.StatusPreviewing, domain.TransitionFields{TotalResults: &total})
	if err != nil {
		return snapshotOutput(job, buffer, added), fmt.Errorf("%w: %w", ErrUpdateImportJob, err)
	}
	o.publish(updated)

	log.Info("page merged", zap.Int("added", len(added)), zap.Int("buffered", buffer.Len()))

	return snapshotOutput(updated, buffer, added), nil
}

func (o *SearchOrchestrator) fetchPage(ctx context.Context, buffer *domain.ResultBuffer, pageNumber int) (domain.SearchPage, error) {
	criteria := buffer.Criteria()
	if criteria.IsList() {
		return o.directory.SearchByList(ctx, criteria.List.ListID, criteria.List.ListType, pageNumber)
	}
	query, _ := buffer.ActiveQuery()
	return o.directory.Search(ctx, query, pageNumber)
}

// Results returns every buffered record of the job's live session.
func (o *SearchOrchestrator) Results(ctx context.Context, jobID string) (SearchOutput, error) {
	job, err := o.getJob(ctx, jobID)
	if err != nil {
		return SearchOutput{}, err
	}
	buffer, ok := o.buffers.Get(jobID)
	if !ok {
		return SearchOutput{Job: toJobOutput(job)}, ErrNoActiveSession
	}
	return snapshotOutput(job, buffer, buffer.Records()), nil
}

// fail records cause on the job before handing it back, so the job history keeps
// what happened even if the caller goes away.
func (o *SearchOrchestrator) fail(ctx context.Context, job domain.ImportJob, cause error) (SearchOutput, error) {
	o.buffers.Remove(job.ID)

	message := FailureMessage(cause)
	failed, err := o.jobs.Transition(ctx, job.ID, domain.StatusFailed, domain.TransitionFields{ErrorMessage: &message})
	if err != nil {
		o.logger.Error("mark job failed",
			zap.String("job_id", job.ID),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		return SearchOutput{Job: toJobOutput(job)}, fmt.Errorf("%w; %w: %v", cause, ErrUpdateImportJob, err)
	}
	o.publish(failed)

	o.logger.Warn("search failed", zap.String("job_id", job.ID), zap.String("error_message", message), zap.Error(cause))
	return SearchOutput{Job: toJobOutput(failed)}, cause
}

func (o *SearchOrchestrator) getJob(ctx context.Context, jobID string) (domain.ImportJob, error) {
	job, err := o.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return domain.ImportJob{}, ErrImportJobNotFound
		}
		return domain.ImportJob{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}
	return job, nil
}

func (o *SearchOrchestrator) publish(job domain.ImportJob) {
	o.events.Publish(Event{Type: EventJobUpdated, JobID: job.ID, Status: job.Status})
}

func emptyResult(criteria domain.Criteria) error {
	if criteria.IsList() {
		return &domain.InvalidListError{ListID: criteria.List.ListID, ListType: criteria.List.ListType}
	}
	return domain.ErrNoMatches
}
