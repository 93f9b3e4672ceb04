package commenttree

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/paso-threads/internal/events"
)

// Option is a functional option for configuring a Store
type Option func(*storeConfig)

// storeConfig holds the configuration for Store initialization
type storeConfig struct {
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// WithEventPublisher makes the store publish an event for every mutation
func WithEventPublisher(p events.EventPublisher) Option {
	return func(cfg *storeConfig) {
		cfg.publisher = p
	}
}

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = logger
	}
}

// WithClock sets the time source used to stamp published events
func WithClock(now func() time.Time) Option {
	return func(cfg *storeConfig) {
		cfg.now = now
	}
}
