package prospect

import "time"

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusPreviewing JobStatus = "previewing"
	StatusImporting  JobStatus = "importing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

var transitions = map[JobStatus][]JobStatus{
	StatusPending:    {StatusPreviewing, StatusFailed},
	StatusPreviewing: {StatusPreviewing, StatusImporting, StatusFailed},
	StatusImporting:  {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusPreviewing, StatusFailed},
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreviewing, StatusImporting, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func CanTransition(from, to JobStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SourceStatuses lists every status from which to is reachable. Stores use it to
// express a transition as one conditional update.
func SourceStatuses(to JobStatus) []JobStatus {
	var out []JobStatus
	for _, from := range []JobStatus{StatusPending, StatusPreviewing, StatusImporting, StatusCompleted, StatusFailed} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

type ImportJob struct {
	ID             string
	SearchCriteria string
	Status         JobStatus
	TotalResults   int64
	ImportedCount  int64
	ProcessedCount int64
	FailedCount    int64
	SkippedCount   int64
	CreditsUsed    int64
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransitionFields are written together with the status change. Nil fields keep
// their stored value, except ErrorMessage which is cleared unless the target is
// failed. A completed job may carry a message too, e.g. when enrichment stopped.
type TransitionFields struct {
	TotalResults  *int64
	ImportedCount *int64
	ErrorMessage  *string
}

type ImportProgress struct {
	ProcessedCount int64
	ImportedCount  int64
	FailedCount    int64
	SkippedCount   int64
	CreditsUsed    int64
}

type JobFilter struct {
	Status *JobStatus
	Limit  int
}
