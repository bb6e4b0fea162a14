package prospect

import "context"

type DirectoryClient interface {
	Search(ctx context.Context, query QueryCriteria, page int) (SearchPage, error)
	SearchByList(ctx context.Context, listID string, listType ListType, page int) (SearchPage, error)
	Enrich(ctx context.Context, target TargetType, records []Record) (EnrichResult, error)
}

type ImportJobStore interface {
	Create(ctx context.Context, searchCriteria string) (ImportJob, error)
	Transition(ctx context.Context, jobID string, to JobStatus, fields TransitionFields) (ImportJob, error)
	UpdateProgress(ctx context.Context, jobID string, progress ImportProgress) error
	Get(ctx context.Context, jobID string) (ImportJob, error)
	List(ctx context.Context, filter JobFilter) ([]ImportJob, error)
	Delete(ctx context.Context, jobID string) error
}

type BufferStore interface {
	Put(buffer *ResultBuffer)
	Get(jobID string) (*ResultBuffer, bool)
	Remove(jobID string)
}

// Target persists records of one target type with insert-if-absent semantics.
type Target interface {
	Type() TargetType
	Persist(ctx context.Context, record Record) (PersistOutcome, error)
}
