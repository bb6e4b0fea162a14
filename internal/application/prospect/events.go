package prospect

import (
	"sync"
	"time"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

type EventType string

const (
	EventJobUpdated     EventType = "job_updated"
	EventBatchCompleted EventType = "batch_completed"
	EventJobDeleted     EventType = "job_deleted"
)

type Event struct {
	Type       EventType
	JobID      string
	Status     domain.JobStatus
	Progress   *domain.BatchProgress
	OccurredAt time.Time
}

type EventPublisher interface {
	Publish(event Event)
}

// EventBus fans events out to subscribers synchronously, in subscription order.
type EventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(Event)
	order       []int
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[int]func(Event))}
}

func (b *EventBus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
		for i, existing := range b.order {
			if existing == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

func (b *EventBus) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subscribers[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

func NewLogSubscriber(logger *zap.Logger) func(Event) {
	return func(event Event) {
		fields := []zap.Field{
			zap.String("event", string(event.Type)),
			zap.String("job_id", event.JobID),
			zap.String("status", string(event.Status)),
		}
		if p := event.Progress; p != nil {
			fields = append(fields,
				zap.Int("batch", p.Batch),
				zap.Int("batches", p.Batches),
				zap.Int("processed", p.Processed),
				zap.Int("total", p.Total),
				zap.Int("succeeded", p.Succeeded),
				zap.Int("failed", p.Failed),
				zap.Int("skipped_duplicate", p.SkippedDuplicate),
			)
		}
		logger.Info("import job event", fields...)
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
