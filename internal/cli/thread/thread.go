package thread

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thenoetrevino/paso-threads/internal/cli"
	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/render"
	"github.com/thenoetrevino/paso-threads/internal/seed"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// taskView is the JSON shape of one task forest
type taskView struct {
	ID       types.TaskID     `json:"id"`
	Title    string           `json:"title,omitempty"`
	Comments int              `json:"comments"`
	Version  uint64           `json:"version"`
	Threads  []*models.Thread `json:"threads"`
}

// loadSeed reads the seed file and loads every task forest into the store
func loadSeed(ctx context.Context, c *cli.CLI, path string) (*seed.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --seed is required", cli.ErrUsage)
	}
	f, err := seed.Load(path)
	if err != nil {
		return nil, err
	}
	if err := seed.LoadAll(ctx, c.App.CommentService, f); err != nil {
		return nil, err
	}
	return f, nil
}

// selectTasks returns every task of f, or only the one named by id
func selectTasks(f *seed.File, id types.TaskID) ([]seed.Task, error) {
	if id == "" {
		return f.Tasks, nil
	}
	t, ok := f.Task(id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, cli.ErrTaskNotFound)
	}
	return []seed.Task{t}, nil
}

func viewTask(c *cli.CLI, id types.TaskID, title string) taskView {
	snap := c.App.Store().Snapshot(id)
	return taskView{
		ID:       id,
		Title:    title,
		Comments: len(snap.Comments),
		Version:  snap.Version,
		Threads:  snap.Threads(),
	}
}

// rendererFor returns the app renderer, or a new one when flags override it
func rendererFor(cmd *cobra.Command, c *cli.CLI) *render.Renderer {
	markdown, _ := cmd.Flags().GetBool("markdown")
	width, _ := cmd.Flags().GetInt("width")
	if !cmd.Flags().Changed("markdown") && width <= 0 {
		return c.App.Renderer
	}

	opts := render.Options{
		Width:    c.Config.Render.Width,
		Markdown: c.Config.Render.Markdown,
		Colors:   c.Config.ColorScheme,
	}
	if cmd.Flags().Changed("markdown") {
		opts.Markdown = markdown
	}
	if width > 0 {
		opts.Width = width
	}
	return render.New(opts)
}

func renderTasks(r *render.Renderer, views []taskView) string {
	sections := make([]string, len(views))
	for i, v := range views {
		title := string(v.ID)
		if v.Title != "" {
			title += "  " + v.Title
		}
		sections[i] = r.Task(title, v.Threads)
	}
	return strings.Join(sections, "\n\n")
}

func addRenderFlags(flags *pflag.FlagSet) {
	flags.Bool("markdown", false, "Render comment content as markdown")
	flags.Int("width", 0, "Card width in columns (defaults to the configured width)")
}

func formatterFor(cmd *cobra.Command) *cli.OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &cli.OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// cliFor returns the CLI of the command context and a cleanup function
func cliFor(cmd *cobra.Command) (*cli.CLI, func()) {
	c, owned := cli.FromContext(cmd.Context())
	if !owned {
		return c, func() {}
	}
	return c, func() { _ = c.Close() }
}

func joinIDs(ids []types.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
