package thread

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the comment threads of a seed file",
		Long: `Load every task of a seed file into the comment store and render its
reply trees, replies indented under their parent and siblings oldest first.

Examples:
  # Render every task
  paso-threads show --seed board.yaml

  # One task, content rendered as markdown
  paso-threads show --seed board.yaml --task PASO-12 --markdown

  # JSON output for agents
  paso-threads show --seed board.yaml --json
`,
		RunE: runShow,
	}

	cmd.Flags().String("seed", "", "Seed file with tasks and comments (required)")
	cmd.Flags().String("task", "", "Only show this task")
	addRenderFlags(cmd.Flags())

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	seedPath, _ := cmd.Flags().GetString("seed")
	taskID, _ := cmd.Flags().GetString("task")
	formatter := formatterFor(cmd)

	c, cleanup := cliFor(cmd)
	defer cleanup()

	f, err := loadSeed(cmd.Context(), c, seedPath)
	if err != nil {
		return formatter.Fail(err, "check the --seed path and file contents")
	}

	tasks, err := selectTasks(f, types.TaskID(taskID))
	if err != nil {
		return formatter.Fail(err, "tasks in this file: "+joinIDs(f.TaskIDs()))
	}

	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = viewTask(c, t.ID, t.Title)
	}

	return formatter.Success(map[string]any{"tasks": views}, renderTasks(rendererFor(cmd, c), views))
}
