package prospect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

const maxStoredFailures = 100

const (
	stageValidate = "validate"
	stageEnrich   = "enrich"
	stagePersist  = "persist"
)

type ImportRequest struct {
	JobID     string
	RecordIDs []string
	Enrich    bool
	SessionID string
}

type ProgressFunc func(domain.BatchProgress)

type BatchImporterConfig struct {
	BatchSize int
}

type enricher interface {
	Enrich(ctx context.Context, target domain.TargetType, records []domain.Record) (domain.EnrichResult, error)
}

// BatchImporter persists an operator selection from a job's result buffer in
// sequential batches. Record failures are collected and never stop the run.
type BatchImporter struct {
	jobs     domain.ImportJobStore
	enricher enricher
	buffers  domain.BufferStore
	targets  map[domain.TargetType]domain.Target
	events   EventPublisher
	logger   *zap.Logger
	cfg      BatchImporterConfig

	mu      sync.Mutex
	running map[string]*importRun
	wg      sync.WaitGroup
}

type importRun struct {
	job       domain.ImportJob
	records   []domain.Record
	target    domain.Target
	enrich    bool
	cancelled bool
	// notice is stored on the completed job, empty when the run had nothing to report
	notice string
}

func NewBatchImporter(jobs domain.ImportJobStore, enricher enricher, buffers domain.BufferStore, targets []domain.Target, events EventPublisher, logger *zap.Logger, cfg BatchImporterConfig) *BatchImporter {
	if cfg.BatchSize <= 0 || cfg.BatchSize > domain.MaxBatchSize {
		cfg.BatchSize = domain.MaxBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	byType := make(map[domain.TargetType]domain.Target, len(targets))
	for _, target := range targets {
		byType[target.Type()] = target
	}

	return &BatchImporter{
		jobs:     jobs,
		enricher: enricher,
		buffers:  buffers,
		targets:  byType,
		events:   publisherOrNoop(events),
		logger:   logger,
		cfg:      cfg,
		running:  make(map[string]*importRun),
	}
}

// ImportAll imports the selection and blocks until every batch ran.
func (b *BatchImporter) ImportAll(ctx context.Context, req ImportRequest, onProgress ProgressFunc) (domain.BatchImportResult, error) {
	run, err := b.prepare(ctx, req)
	if err != nil {
		return domain.BatchImportResult{}, err
	}
	return b.process(ctx, run, onProgress)
}

// Start validates the request and moves the job to importing, then runs the
// batches in the background. The run outlives ctx cancellation; use Cancel.
func (b *BatchImporter) Start(ctx context.Context, req ImportRequest) (JobOutput, error) {
	run, err := b.prepare(ctx, req)
	if err != nil {
		return JobOutput{}, err
	}

	runCtx := context.WithoutCancel(ctx)
	go func() {
		if _, err := b.process(runCtx, run, nil); err != nil {
			b.logger.Error("import run failed", zap.String("job_id", run.job.ID), zap.Error(err))
		}
	}()

	return toJobOutput(run.job), nil
}

// Cancel asks a running import to stop before its next batch.
func (b *BatchImporter) Cancel(jobID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	run, ok := b.running[jobID]
	if !ok {
		return false
	}
	run.cancelled = true
	return true
}

func (b *BatchImporter) CancelAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, run := range b.running {
		run.cancelled = true
	}
}

// Wait blocks until every started run has finished.
func (b *BatchImporter) Wait() {
	b.wg.Wait()
}

func (b *BatchImporter) prepare(ctx context.Context, req ImportRequest) (*importRun, error) {
	buffer, ok := b.buffers.Get(req.JobID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	if req.SessionID != "" && req.SessionID != buffer.SessionID() {
		return nil, ErrStaleSession
	}

	records, missing := buffer.Select(req.RecordIDs)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSelectionNotInBuffer, summarizeIDs(missing))
	}
	if len(records) == 0 {
		return nil, ErrEmptySelection
	}

	target, ok := b.targets[buffer.Target()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetUnavailable, buffer.Target())
	}

	run := &importRun{records: records, target: target, enrich: req.Enrich}
	if err := b.register(req.JobID, run); err != nil {
		return nil, err
	}

	job, err := b.jobs.Transition(ctx, req.JobID, domain.StatusImporting, domain.TransitionFields{})
	if err != nil {
		b.unregister(req.JobID)
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, ErrImportJobNotFound
		}
		if errors.Is(err, domain.ErrIllegalTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpdateImportJob, err)
	}
	run.job = job
	b.wg.Add(1)
	b.publish(Event{Type: EventJobUpdated, JobID: job.ID, Status: job.Status})

	return run, nil
}

func (b *BatchImporter) process(ctx context.Context, run *importRun, onProgress ProgressFunc) (domain.BatchImportResult, error) {
	defer b.wg.Done()
	defer b.unregister(run.job.ID)

	jobID := run.job.ID
	log := b.logger.With(zap.String("job_id", jobID), zap.String("target", string(run.target.Type())))

	result := domain.BatchImportResult{Total: len(run.records)}
	batches := chunkRecords(run.records, b.cfg.BatchSize)

	log.Info("import started", zap.Int("records", len(run.records)), zap.Int("batches", len(batches)), zap.Bool("enrich", run.enrich))

	for i, batch := range batches {
		if b.isCancelled(jobID) || ctx.Err() != nil {
			result.Cancelled = true
			log.Info("import cancelled", zap.Int("next_batch", i+1))
			break
		}

		b.processBatch(ctx, run, batch, &result, log)

		progress := domain.BatchProgress{
			Batch:             i + 1,
			Batches:           len(batches),
			Processed:         result.Processed(),
			Total:             result.Total,
			Succeeded:         result.Succeeded,
			Failed:            result.Failed,
			SkippedDuplicate:  result.SkippedDuplicate,
			CreditsUsed:       result.CreditsUsed,
			EnrichmentStopped: result.EnrichmentStopped,
		}

		if err := b.jobs.UpdateProgress(ctx, jobID, domain.ImportProgress{
			ProcessedCount: int64(progress.Processed),
			ImportedCount:  int64(progress.Succeeded),
			FailedCount:    int64(progress.Failed),
			SkippedCount:   int64(progress.SkippedDuplicate),
			CreditsUsed:    int64(progress.CreditsUsed),
		}); err != nil {
			if errors.Is(err, domain.ErrStaleJob) || errors.Is(err, domain.ErrJobNotFound) {
				log.Warn("job changed during import, stopping", zap.Error(err))
				return result, fmt.Errorf("%w: %v", domain.ErrStaleJob, err)
			}
			return result, b.failRun(ctx, run, fmt.Errorf("update progress: %w", err))
		}

		b.publish(Event{Type: EventBatchCompleted, JobID: jobID, Status: domain.StatusImporting, Progress: &progress})
		if onProgress != nil {
			onProgress(progress)
		}
	}

	imported := int64(result.Succeeded)
	fields := domain.TransitionFields{ImportedCount: &imported}
	if run.notice != "" {
		fields.ErrorMessage = &run.notice
	}
	job, err := b.jobs.Transition(ctx, jobID, domain.StatusCompleted, fields)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) || errors.Is(err, domain.ErrIllegalTransition) {
			return result, fmt.Errorf("%w: %v", domain.ErrStaleJob, err)
		}
		return result, b.failRun(ctx, run, fmt.Errorf("complete job: %w", err))
	}
	b.buffers.Remove(jobID)
	b.publish(Event{Type: EventJobUpdated, JobID: jobID, Status: job.Status})

	log.Info("import completed",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("skipped_duplicate", result.SkippedDuplicate),
		zap.Int("credits_used", result.CreditsUsed),
		zap.Bool("cancelled", result.Cancelled),
		zap.Bool("enrichment_stopped", result.EnrichmentStopped),
	)

	return result, nil
}

func (b *BatchImporter) processBatch(ctx context.Context, run *importRun, batch []domain.Record, result *domain.BatchImportResult, log *zap.Logger) {
	toPersist := batch

	if run.enrich && !result.EnrichmentStopped {
		enriched, err := b.enricher.Enrich(ctx, run.target.Type(), batch)
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			// retrying would only burn quota; the rest of the run goes without enrichment
			result.EnrichmentStopped = true
			run.notice = truncateReason(withDetail(msgEnrichmentStopped, FailureMessage(err)))
			log.Warn("enrichment stopped, importing remaining records as found", zap.Error(err))
		case err != nil:
			log.Warn("enrichment failed for batch", zap.Int("records", len(batch)), zap.Error(err))
			for _, record := range batch {
				addFailure(result, record.ExternalID(), stageEnrich, FailureMessage(err))
			}
			return
		default:
			toPersist = b.mergeEnriched(batch, enriched, result)
		}
	}

	for _, record := range toPersist {
		if err := record.Validate(); err != nil {
			addFailure(result, record.ExternalID(), stageValidate, err.Error())
			continue
		}

		outcome, err := run.target.Persist(ctx, record)
		switch {
		case err != nil:
			addFailure(result, record.ExternalID(), stagePersist, truncateReason(err.Error()))
		case outcome == domain.OutcomeDuplicate:
			result.SkippedDuplicate++
		default:
			result.Succeeded++
		}
	}
}

func (b *BatchImporter) mergeEnriched(batch []domain.Record, enriched domain.EnrichResult, result *domain.BatchImportResult) []domain.Record {
	if enriched.Billable {
		result.CreditsUsed += enriched.CreditsUsed
	}

	out := make([]domain.Record, 0, len(batch))
	for _, record := range batch {
		// no match means there was nothing to reveal, the original is kept
		if revealed, ok := enriched.Records[record.ExternalID()]; ok {
			out = append(out, revealed)
			continue
		}
		out = append(out, record)
	}
	return out
}

// failRun is used when the run itself cannot continue, as opposed to record failures.
func (b *BatchImporter) failRun(ctx context.Context, run *importRun, cause error) error {
	message := truncateReason(cause.Error())
	job, err := b.jobs.Transition(ctx, run.job.ID, domain.StatusFailed, domain.TransitionFields{ErrorMessage: &message})
	if err != nil {
		return fmt.Errorf("%v; fail update failed: %w", cause, err)
	}
	b.buffers.Remove(run.job.ID)
	b.publish(Event{Type: EventJobUpdated, JobID: job.ID, Status: job.Status})
	return cause
}

func (b *BatchImporter) register(jobID string, run *importRun) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.running[jobID]; busy {
		return ErrImportInProgress
	}
	b.running[jobID] = run
	return nil
}

func (b *BatchImporter) unregister(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.running, jobID)
}

func (b *BatchImporter) isCancelled(jobID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	run, ok := b.running[jobID]
	return ok && run.cancelled
}

func (b *BatchImporter) publish(event Event) {
	b.events.Publish(event)
}

func addFailure(result *domain.BatchImportResult, recordID, stage, reason string) {
	result.Failed++
	if len(result.Errors) < maxStoredFailures {
		result.Errors = append(result.Errors, domain.RecordError{
			RecordID: recordID,
			Stage:    stage,
			Reason:   reason,
		})
	}
}

func chunkRecords(records []domain.Record, size int) [][]domain.Record {
	chunks := make([][]domain.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

func summarizeIDs(ids []string) string {
	const shown = 5
	if len(ids) <= shown {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:shown], ", "), len(ids)-shown)
}
