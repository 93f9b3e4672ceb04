package events

import (
	"sync/atomic"
	"time"
)

// Metrics tracks bus statistics using atomic operations for thread-safety
type Metrics struct {
	EventsPublished atomic.Int64
	EventsDelivered atomic.Int64
	EventsDropped   atomic.Int64
	Subscribers     atomic.Int32
	StartTime       time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncEventsPublished increments the events published counter
func (m *Metrics) IncEventsPublished() {
	m.EventsPublished.Add(1)
}

// IncEventsDelivered increments the events delivered counter
func (m *Metrics) IncEventsDelivered() {
	m.EventsDelivered.Add(1)
}

// IncEventsDropped increments the counter of events skipped for slow subscribers
func (m *Metrics) IncEventsDropped() {
	m.EventsDropped.Add(1)
}

// SetSubscribers sets the current subscriber count
func (m *Metrics) SetSubscribers(count int32) {
	m.Subscribers.Store(count)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsPublished int64     `json:"events_published"`
	EventsDelivered int64     `json:"events_delivered"`
	EventsDropped   int64     `json:"events_dropped"`
	Subscribers     int32     `json:"subscribers"`
	StartTime       time.Time `json:"start_time"`
	Uptime          string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsPublished: m.EventsPublished.Load(),
		EventsDelivered: m.EventsDelivered.Load(),
		EventsDropped:   m.EventsDropped.Load(),
		Subscribers:     m.Subscribers.Load(),
		StartTime:       m.StartTime,
		Uptime:          time.Since(m.StartTime).String(),
	}
}
