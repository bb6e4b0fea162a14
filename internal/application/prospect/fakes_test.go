package prospect_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type fakeJobStore struct {
	mu          sync.Mutex
	jobs        map[string]domain.ImportJob
	progress    []domain.ImportProgress
	createErr   error
	progressErr error
	now         time.Time
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[string]domain.ImportJob{}, now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeJobStore) Create(ctx context.Context, searchCriteria string) (domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.ImportJob{}, f.createErr
	}
	f.now = f.now.Add(time.Second)
	job := domain.ImportJob{
		ID:             uuid.NewString(),
		SearchCriteria: searchCriteria,
		Status:         domain.StatusPending,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobStore) Transition(ctx context.Context, jobID string, to domain.JobStatus, fields domain.TransitionFields) (domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ImportJob{}, domain.ErrJobNotFound
	}
	if !domain.CanTransition(job.Status, to) {
		return domain.ImportJob{}, &domain.IllegalTransitionError{JobID: jobID, From: job.Status, To: to}
	}
	job.Status = to
	if fields.TotalResults != nil {
		job.TotalResults = *fields.TotalResults
	}
	if fields.ImportedCount != nil {
		job.ImportedCount = *fields.ImportedCount
	}
	switch {
	case fields.ErrorMessage != nil:
		job.ErrorMessage = *fields.ErrorMessage
	case to != domain.StatusFailed:
		job.ErrorMessage = ""
	}
	if to == domain.StatusImporting {
		job.ProcessedCount, job.FailedCount, job.SkippedCount, job.CreditsUsed = 0, 0, 0, 0
	}
	f.jobs[jobID] = job
	return job, nil
}

func (f *fakeJobStore) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.progressErr != nil {
		return f.progressErr
	}
	job, ok := f.jobs[jobID]
	if !ok || job.Status != domain.StatusImporting {
		return domain.ErrStaleJob
	}
	job.ProcessedCount = progress.ProcessedCount
	job.ImportedCount = progress.ImportedCount
	job.FailedCount = progress.FailedCount
	job.SkippedCount = progress.SkippedCount
	job.CreditsUsed = progress.CreditsUsed
	f.jobs[jobID] = job
	f.progress = append(f.progress, progress)
	return nil
}

func (f *fakeJobStore) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ImportJob{}, domain.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobStore) List(ctx context.Context, filter domain.JobFilter) ([]domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ImportJob
	for _, job := range f.jobs {
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeJobStore) Delete(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[jobID]; !ok {
		return domain.ErrJobNotFound
	}
	delete(f.jobs, jobID)
	return nil
}

func (f *fakeJobStore) job(id string) domain.ImportJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[id]
}

// fakeDirectory serves pages keyed by "<keywords or list id>#<page>". Missing
// pages are empty.
type fakeDirectory struct {
	mu        sync.Mutex
	enrichN   int
	pages     map[string]domain.SearchPage
	errs      map[string]error
	calls     []string
	enrichErr error
	enriched  map[string]domain.Record
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		pages:    map[string]domain.SearchPage{},
		errs:     map[string]error{},
		enriched: map[string]domain.Record{},
	}
}

func pageKey(name string, page int) string {
	return fmt.Sprintf("%s#%d", name, page)
}

func (f *fakeDirectory) serve(key string) (domain.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if err := f.errs[key]; err != nil {
		return domain.SearchPage{}, err
	}
	return f.pages[key], nil
}

func (f *fakeDirectory) Search(ctx context.Context, query domain.QueryCriteria, page int) (domain.SearchPage, error) {
	return f.serve(pageKey(query.Keywords, page))
}

func (f *fakeDirectory) SearchByList(ctx context.Context, listID string, listType domain.ListType, page int) (domain.SearchPage, error) {
	return f.serve(pageKey(listID, page))
}

func (f *fakeDirectory) Enrich(ctx context.Context, target domain.TargetType, records []domain.Record) (domain.EnrichResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrichN++
	if f.enrichErr != nil {
		return domain.EnrichResult{}, f.enrichErr
	}
	out := domain.EnrichResult{Records: map[string]domain.Record{}, Billable: true}
	for _, record := range records {
		if enriched, ok := f.enriched[record.ExternalID()]; ok {
			out.Records[record.ExternalID()] = enriched
			out.CreditsUsed++
		}
	}
	return out, nil
}

func (f *fakeDirectory) enrichCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrichN
}

func (f *fakeDirectory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBuffers struct {
	mu      sync.Mutex
	buffers map[string]*domain.ResultBuffer
}

func newFakeBuffers() *fakeBuffers {
	return &fakeBuffers{buffers: map[string]*domain.ResultBuffer{}}
}

func (f *fakeBuffers) Put(buffer *domain.ResultBuffer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buffers[buffer.JobID()] = buffer
}

func (f *fakeBuffers) Get(jobID string) (*domain.ResultBuffer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buffer, ok := f.buffers[jobID]
	return buffer, ok
}

func (f *fakeBuffers) Remove(jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.buffers, jobID)
}

type fakeTarget struct {
	mu         sync.Mutex
	targetType domain.TargetType
	existing   map[string]bool
	failing    map[string]error
	persisted  []domain.Record
}

func newFakeTarget(targetType domain.TargetType) *fakeTarget {
	return &fakeTarget{targetType: targetType, existing: map[string]bool{}, failing: map[string]error{}}
}

func (f *fakeTarget) Type() domain.TargetType {
	return f.targetType
}

func (f *fakeTarget) Persist(ctx context.Context, record domain.Record) (domain.PersistOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := record.ExternalID()
	if err := f.failing[id]; err != nil {
		return "", err
	}
	if f.existing[id] {
		return domain.OutcomeDuplicate, nil
	}
	f.existing[id] = true
	f.persisted = append(f.persisted, record)
	return domain.OutcomeInserted, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []app.Event
}

func (r *recordingPublisher) Publish(event app.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) count(eventType app.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, event := range r.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func people(from, to int) []domain.Record {
	records := make([]domain.Record, 0, to-from+1)
	for i := from; i <= to; i++ {
		records = append(records, domain.Person{
			ID:    fmt.Sprintf("p-%d", i),
			Name:  fmt.Sprintf("Person %d", i),
			Email: fmt.Sprintf("person%d@example.com", i),
		})
	}
	return records
}

func ids(records []domain.Record) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.ExternalID())
	}
	return out
}

func page(number, perPage int, total int64, records []domain.Record) domain.SearchPage {
	return domain.SearchPage{
		Records: records,
		Pagination: domain.Pagination{
			Page:         number,
			PerPage:      perPage,
			TotalEntries: total,
			TotalPages:   int((total + int64(perPage) - 1) / int64(perPage)),
		},
	}
}

type harness struct {
	jobs         *fakeJobStore
	directory    *fakeDirectory
	buffers      *fakeBuffers
	people       *fakeTarget
	orgs         *fakeTarget
	events       *recordingPublisher
	orchestrator *app.SearchOrchestrator
	importer     *app.BatchImporter
	retries      *app.RetryController
}

func newHarness() *harness {
	h := &harness{
		jobs:      newFakeJobStore(),
		directory: newFakeDirectory(),
		buffers:   newFakeBuffers(),
		people:    newFakeTarget(domain.TargetPeople),
		orgs:      newFakeTarget(domain.TargetOrganizations),
		events:    &recordingPublisher{},
	}
	h.orchestrator = app.NewSearchOrchestrator(h.jobs, h.directory, h.buffers, h.events, nil)
	h.importer = app.NewBatchImporter(h.jobs, h.directory, h.buffers, []domain.Target{h.people, h.orgs}, h.events, nil, app.BatchImporterConfig{BatchSize: 10})
	h.retries = app.NewRetryController(h.orchestrator, nil)
	return h
}

var errBoom = errors.New("boom")
