package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

// BufferStore keeps result buffers in memory, one per job. Abandoned previews
// expire after the TTL and the least recently used ones go first at capacity.
type BufferStore struct {
	cache *expirable.LRU[string, *domain.ResultBuffer]
}

func NewBufferStore(capacity int, ttl time.Duration, logger *zap.Logger) *BufferStore {
	if capacity <= 0 {
		capacity = 256
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	onEvict := func(jobID string, buffer *domain.ResultBuffer) {
		logger.Debug("result buffer discarded",
			zap.String("job_id", jobID),
			zap.String("session_id", buffer.SessionID()),
			zap.Int("records", buffer.Len()),
		)
	}

	return &BufferStore{cache: expirable.NewLRU[string, *domain.ResultBuffer](capacity, onEvict, ttl)}
}

// Put binds buffer to its job and replaces any previous buffer of that job.
func (s *BufferStore) Put(buffer *domain.ResultBuffer) {
	s.cache.Add(buffer.JobID(), buffer)
}

func (s *BufferStore) Get(jobID string) (*domain.ResultBuffer, bool) {
	return s.cache.Get(jobID)
}

func (s *BufferStore) Remove(jobID string) {
	s.cache.Remove(jobID)
}

func (s *BufferStore) Len() int {
	return s.cache.Len()
}
