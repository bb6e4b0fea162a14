package prospect

// MaxBatchSize is the most records one bulk enrichment call accepts.
const MaxBatchSize = 10

type PersistOutcome string

const (
	OutcomeInserted  PersistOutcome = "inserted"
	OutcomeDuplicate PersistOutcome = "skipped_duplicate"
)

type RecordError struct {
	RecordID string
	Stage    string
	Reason   string
}

// BatchImportResult aggregates the outcome of every processed record. For a run
// that was not cancelled Succeeded+Failed+SkippedDuplicate equals Total.
type BatchImportResult struct {
	Total            int
	Succeeded        int
	Failed           int
	SkippedDuplicate int
	CreditsUsed      int
	Cancelled        bool
	// EnrichmentStopped is set once the directory refused enrichment for credits
	// or rate limits; later batches were persisted as found by the search.
	EnrichmentStopped bool
	Errors            []RecordError
}

func (r BatchImportResult) Processed() int {
	return r.Succeeded + r.Failed + r.SkippedDuplicate
}

type BatchProgress struct {
	Batch             int
	Batches           int
	Processed         int
	Total             int
	Succeeded         int
	Failed            int
	SkippedDuplicate  int
	CreditsUsed       int
	EnrichmentStopped bool
}
