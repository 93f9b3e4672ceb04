package cli

import (
	"context"

	"github.com/thenoetrevino/paso-threads/internal/app"
	"github.com/thenoetrevino/paso-threads/internal/config"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
}

// NewCLI builds the application container for one command invocation
func NewCLI(cfg *config.Config, opts ...app.Option) *CLI {
	if cfg == nil {
		cfg = config.Default()
	}
	return &CLI{
		App:    app.New(cfg, opts...),
		Config: cfg,
	}
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	return c.App.Close()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying c
func NewContext(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the CLI stored in ctx. Commands run outside the root
// command (tests, embedding) get a fresh CLI with the default config.
func FromContext(ctx context.Context) (c *CLI, owned bool) {
	if ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*CLI); ok && c != nil {
			return c, false
		}
	}
	return NewCLI(config.Default()), true
}
