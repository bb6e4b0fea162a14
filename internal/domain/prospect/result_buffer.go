package prospect

import (
	"fmt"
	"sync"
)

// ResultBuffer holds the records materialized for one job during a browsing
// session. It only grows: pages are merged in order and a record id is kept once.
type ResultBuffer struct {
	mu sync.Mutex

	sessionID    string
	jobID        string
	criteria     Criteria
	target       TargetType
	activeQuery  *QueryCriteria
	usedFallback bool
	listName     string
	pagination   Pagination
	exhausted    bool
	loading      bool
	records      []Record
	index        map[string]struct{}
}

func NewResultBuffer(sessionID, jobID string, criteria Criteria) *ResultBuffer {
	return &ResultBuffer{
		sessionID:   sessionID,
		jobID:       jobID,
		criteria:    criteria,
		target:      criteria.Target(),
		activeQuery: criteria.Query,
		index:       make(map[string]struct{}),
	}
}

func (b *ResultBuffer) SessionID() string { return b.sessionID }

func (b *ResultBuffer) JobID() string { return b.jobID }

func (b *ResultBuffer) Criteria() Criteria { return b.criteria }

func (b *ResultBuffer) Target() TargetType { return b.target }

// UseQuery switches the query that later pages are requested with. It is set once
// the first page tells which of primary and fallback produced results.
func (b *ResultBuffer) UseQuery(q *QueryCriteria, fallback bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activeQuery = q
	b.usedFallback = fallback
}

func (b *ResultBuffer) ActiveQuery() (QueryCriteria, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.activeQuery == nil {
		return QueryCriteria{}, false
	}
	return *b.activeQuery, true
}

func (b *ResultBuffer) UsedFallback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.usedFallback
}

func (b *ResultBuffer) SetListName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if name != "" {
		b.listName = name
	}
}

func (b *ResultBuffer) ListName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listName
}

// BeginLoad reserves the next page number. Callers must call EndLoad afterwards.
func (b *ResultBuffer) BeginLoad() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loading {
		return 0, ErrLoadInProgress
	}
	if b.exhausted || (b.pagination.Page > 0 && !b.pagination.HasNext()) {
		return 0, ErrNoMorePages
	}
	b.loading = true
	return b.pagination.Page + 1, nil
}

func (b *ResultBuffer) EndLoad() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
}

// Merge appends the unseen records of the page fetched for pageNumber and returns
// them. pageNumber must directly follow the last merged page.
func (b *ResultBuffer) Merge(pageNumber int, page SearchPage) ([]Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pageNumber != b.pagination.Page+1 {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrPageOutOfOrder, pageNumber, b.pagination.Page+1)
	}
	for _, record := range page.Records {
		if record.Target() != b.target {
			return nil, fmt.Errorf("%w: %s record in %s buffer", ErrMixedTargets, record.Target(), b.target)
		}
	}

	added := make([]Record, 0, len(page.Records))
	for _, record := range page.Records {
		id := record.ExternalID()
		if _, seen := b.index[id]; seen {
			continue
		}
		b.index[id] = struct{}{}
		b.records = append(b.records, record)
		added = append(added, record)
	}

	pagination := page.Pagination
	pagination.Page = pageNumber
	if pagination.TotalEntries < b.pagination.TotalEntries {
		pagination.TotalEntries = b.pagination.TotalEntries
	}
	b.pagination = pagination
	if len(page.Records) == 0 || !pagination.HasNext() {
		b.exhausted = true
	}
	if page.ListName != "" {
		b.listName = page.ListName
	}

	return added, nil
}

func (b *ResultBuffer) Pagination() Pagination {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pagination
}

func (b *ResultBuffer) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exhausted
}

func (b *ResultBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

func (b *ResultBuffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Select returns the buffered records for ids in request order, ignoring repeated
// ids, plus the ids that are not in the buffer.
func (b *ResultBuffer) Select(ids []string) ([]Record, []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	byID := make(map[string]Record, len(b.records))
	for _, record := range b.records {
		byID[record.ExternalID()] = record
	}

	selected := make([]Record, 0, len(ids))
	var missing []string
	picked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := picked[id]; dup {
			continue
		}
		picked[id] = struct{}{}
		record, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, record)
	}
	return selected, missing
}
