package thread

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/paso-threads/internal/cli"
	"github.com/thenoetrevino/paso-threads/internal/cli/styles"
	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/seed"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// Outcome statuses
const (
	statusApplied = "applied"
	statusNoOp    = "no-op"
	statusFailed  = "failed"
)

// outcomeView is the JSON shape of one scripted operation result
type outcomeView struct {
	Index     int               `json:"index"`
	Op        seed.OpKind       `json:"op"`
	TaskID    types.TaskID      `json:"task_id"`
	CommentID types.CommentID   `json:"comment_id,omitempty"`
	Removed   []types.CommentID `json:"removed,omitempty"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
}

func viewOutcome(o seed.Outcome) outcomeView {
	v := outcomeView{
		Index:     o.Index,
		Op:        o.Op.Op,
		TaskID:    o.TaskID,
		CommentID: o.CommentID,
		Removed:   o.Removed,
		Status:    statusApplied,
	}
	if o.Err != nil {
		v.Error = o.Err.Error()
		v.Status = statusFailed
		if o.NoOp() {
			v.Status = statusNoOp
		}
	}
	return v
}

// ApplyCmd returns the apply command
func ApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run the scripted operations of a seed file",
		Long: `Load every task of a seed file, run its operations in order and render
the tasks they changed.

An operation whose target or parent does not exist changes nothing and is
reported as a no-op. Any other failure is reported and the remaining
operations still run; the command then exits with a validation error.

Examples:
  # Operations without a task field apply to the first task of the file
  paso-threads apply --seed board.yaml

  # Default operations to another task
  paso-threads apply --seed board.yaml --task PASO-13

  # JSON output for agents
  paso-threads apply --seed board.yaml --json
`,
		RunE: runApply,
	}

	cmd.Flags().String("seed", "", "Seed file with tasks, comments and operations (required)")
	cmd.Flags().String("task", "", "Task for operations that name none (defaults to the first task)")
	addRenderFlags(cmd.Flags())

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (outcome statuses only)")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	seedPath, _ := cmd.Flags().GetString("seed")
	taskFlag, _ := cmd.Flags().GetString("task")
	formatter := formatterFor(cmd)

	c, cleanup := cliFor(cmd)
	defer cleanup()

	f, err := loadSeed(cmd.Context(), c, seedPath)
	if err != nil {
		return formatter.Fail(err, "check the --seed path and file contents")
	}

	defaultTask := f.Tasks[0].ID
	if taskFlag != "" {
		if _, err := selectTasks(f, types.TaskID(taskFlag)); err != nil {
			return formatter.Fail(err, "tasks in this file: "+joinIDs(f.TaskIDs()))
		}
		defaultTask = types.TaskID(taskFlag)
	}

	changed := trackChanges(c.App.Store())
	outcomes := seed.Run(cmd.Context(), c.App.CommentService, f.Operations, defaultTask)
	touched := changed()

	views := make([]outcomeView, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		views[i] = viewOutcome(o)
		if views[i].Status == statusFailed {
			failed++
		}
	}

	tasks := make([]taskView, 0, len(touched))
	for _, id := range touched {
		var title string
		if t, ok := f.Task(id); ok {
			title = t.Title
		}
		tasks = append(tasks, viewTask(c, id, title))
	}

	if formatter.Quiet {
		for _, v := range views {
			fmt.Fprintln(cmd.OutOrStdout(), v.Status)
		}
	} else {
		data := map[string]any{"outcomes": views, "tasks": tasks}
		human := formatOutcomes(views)
		if metrics, ok := c.App.EventMetrics(); ok {
			data["events"] = metrics
			human += "\n" + styles.SubtitleStyle.Render(fmt.Sprintf("%d events published", metrics.EventsPublished))
		}
		if len(tasks) > 0 {
			human += "\n\n" + renderTasks(rendererFor(cmd, c), tasks)
		}
		if err := formatter.Success(data, human); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(outcomes), cli.ErrOperationsFailed)
	}
	return nil
}

// trackChanges records which task forests change until the returned
// function is called. That function unsubscribes and returns the task ids in
// the order they first changed.
func trackChanges(store *commenttree.Store) func() []types.TaskID {
	var (
		mu      sync.Mutex
		started bool
		order   []types.TaskID
		seen    = make(map[types.TaskID]bool)
	)
	unsubscribe := store.Subscribe("", func(snap commenttree.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if !started || seen[snap.TaskID] {
			return
		}
		seen[snap.TaskID] = true
		order = append(order, snap.TaskID)
	})

	mu.Lock()
	started = true
	mu.Unlock()

	return func() []types.TaskID {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		return order
	}
}

func formatOutcomes(views []outcomeView) string {
	if len(views) == 0 {
		return styles.SubtitleStyle.Render("No operations")
	}

	lines := make([]string, len(views))
	for i, v := range views {
		var mark, detail string
		switch v.Status {
		case statusApplied:
			mark = styles.SuccessStyle.Render("✓")
			detail = "→ " + string(v.CommentID)
			if len(v.Removed) > 0 {
				detail = fmt.Sprintf("removed %d", len(v.Removed))
			}
		case statusNoOp:
			mark = styles.NoOpStyle.Render("∅")
			detail = "no-op: " + v.Error
		default:
			mark = styles.ErrorStyle.Render("✗")
			detail = v.Error
		}
		lines[i] = fmt.Sprintf("%s #%-3d %-7s %s  %s",
			mark, v.Index, v.Op, styles.ValueStyle.Render(string(v.TaskID)), styles.SubtitleStyle.Render(detail))
	}
	return strings.Join(lines, "\n")
}
