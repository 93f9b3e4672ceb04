package app

import (
	"log/slog"

	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/config"
	"github.com/thenoetrevino/paso-threads/internal/events"
	"github.com/thenoetrevino/paso-threads/internal/render"
	commentservice "github.com/thenoetrevino/paso-threads/internal/services/comment"
)

// App holds all application services and provides dependency injection.
// This is the main application container: it owns the comment store and
// hands it to everything else by reference.
type App struct {
	// State layer
	store *commenttree.Store

	// Event system for live updates; nil when an external publisher is used
	bus *events.Bus

	// Service layer (business logic)
	CommentService commentservice.Service

	// Presentation
	Renderer *render.Renderer
}

// New creates a new App with all services initialized from cfg.
// This is the single entry point for creating the application container.
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	ac := &appConfig{}
	for _, opt := range opts {
		opt(ac)
	}

	a := &App{}
	publisher := ac.eventClient
	if publisher == nil {
		a.bus = events.NewBus(cfg.Events.BufferSize)
		publisher = a.bus
	}

	storeOpts := []commenttree.Option{commenttree.WithEventPublisher(publisher)}
	if ac.logger != nil {
		storeOpts = append(storeOpts, commenttree.WithLogger(ac.logger))
	}
	a.store = commenttree.New(storeOpts...)

	a.CommentService = commentservice.NewService(a.store, commentservice.Limits{
		MaxCommentLength: cfg.Limits.MaxCommentLength,
		MaxAttachments:   cfg.Limits.MaxAttachments,
	})
	a.Renderer = render.New(render.Options{
		Width:    cfg.Render.Width,
		Markdown: cfg.Render.Markdown,
		Colors:   cfg.ColorScheme,
	})

	slog.Debug("app initialized", "own_bus", a.bus != nil)
	return a
}

// Store returns the comment store for read access and subscriptions
func (a *App) Store() *commenttree.Store {
	return a.store
}

// Events returns the app's own event bus, or nil when events go to an
// external publisher
func (a *App) Events() events.EventSubscriber {
	if a.bus == nil {
		return nil
	}
	return a.bus
}

// EventMetrics returns the counters of the app's own bus. ok is false when
// events go to an external publisher.
func (a *App) EventMetrics() (snap events.MetricsSnapshot, ok bool) {
	if a.bus == nil {
		return snap, false
	}
	return a.bus.Metrics(), true
}

// Close releases the event bus. Safe to call more than once.
func (a *App) Close() error {
	if a.bus == nil {
		return nil
	}
	return a.bus.Close()
}
