package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/paso-threads/internal/types"
)

// DefaultBufferSize is the per-subscriber queue length used when none is configured
const DefaultBufferSize = 16

// subscriber is a single registered listener
type subscriber struct {
	taskID    types.TaskID
	send      chan Event
	closeOnce sync.Once // Ensures send channel is closed only once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.send) })
}

// Bus is the in-process event fan-out for comment store changes.
// Publish never blocks: a subscriber whose queue is full misses the event
// and the drop is counted in Metrics.
type Bus struct {
	subscribers     map[*subscriber]bool
	mu              sync.RWMutex
	metrics         *Metrics
	sequenceCounter atomic.Int64
	bufferSize      int
	closed          bool
}

// NewBus creates a bus whose subscribers each get a queue of bufferSize events
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		subscribers: make(map[*subscriber]bool),
		metrics:     NewMetrics(),
		bufferSize:  bufferSize,
	}
}

// Publish stamps the event with a sequence number (and a timestamp when it
// has none) and sends it to every subscriber of its task.
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	event.SequenceID = b.sequenceCounter.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	b.metrics.IncEventsPublished()

	for s := range b.subscribers {
		if !event.Matches(s.taskID) {
			continue
		}

		// Non-blocking send - if subscriber is slow, skip
		select {
		case s.send <- event:
			b.metrics.IncEventsDelivered()
		default:
			b.metrics.IncEventsDropped()
			slog.Warn("subscriber queue full, event dropped",
				"event_type", event.Type,
				"task_id", event.TaskID,
				"sequence_id", event.SequenceID)
		}
	}

	return nil
}

// Subscribe registers a listener for taskID (AllTasks for every task).
// The returned cancel function unregisters it and closes the channel; it is
// safe to call more than once. Subscribing to a closed bus yields a closed channel.
func (b *Bus) Subscribe(taskID types.TaskID) (<-chan Event, func()) {
	s := &subscriber{
		taskID: taskID,
		send:   make(chan Event, b.bufferSize),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.close()
		return s.send, func() {}
	}
	b.subscribers[s] = true
	b.metrics.SetSubscribers(int32(len(b.subscribers)))
	b.mu.Unlock()

	return s.send, func() { b.removeSubscriber(s) }
}

func (b *Bus) removeSubscriber(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[s] {
		delete(b.subscribers, s)
		b.metrics.SetSubscribers(int32(len(b.subscribers)))
	}
	s.close()
}

// Metrics returns a snapshot of the bus counters
func (b *Bus) Metrics() MetricsSnapshot {
	return b.metrics.GetSnapshot()
}

// Close closes every subscriber channel; later Publish calls return ErrBusClosed
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for s := range b.subscribers {
		s.close()
	}
	b.subscribers = make(map[*subscriber]bool)
	b.metrics.SetSubscribers(0)

	return nil
}
