package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thenoetrevino/paso-threads/internal/cli"
	"github.com/thenoetrevino/paso-threads/internal/testutil"
)

const seedFile = `
tasks:
  - id: T-1
    title: Ship it
    comments:
      - id: c1
        author: alice
        created_at: 2024-03-14T09:00:00Z
        content: hello
`

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"show", "apply"} {
		found, _, err := root.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmd_ShowWithConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := testutil.WriteFile(t, "config.yaml", "log_level: debug\nrender:\n  width: 50\n")
	seedPath := testutil.WriteFile(t, "board.yaml", seedFile)

	res := testutil.ExecuteCommand(t, context.Background(), NewRootCmd(),
		"show", "--config", cfgPath, "--seed", seedPath, "--json")
	if res.Err != nil {
		t.Fatalf("show failed: %v\n%s", res.Err, res.Stdout)
	}
	if !strings.Contains(res.Stdout, `"id":"c1"`) {
		t.Errorf("unexpected output: %s", res.Stdout)
	}

	if _, err := os.Stat(filepath.Join(home, ".paso-threads", "logs", "paso-threads.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestRootCmd_MalformedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := testutil.WriteFile(t, "config.yaml", "render: [")
	seedPath := testutil.WriteFile(t, "board.yaml", seedFile)

	res := testutil.ExecuteCommand(t, context.Background(), NewRootCmd(),
		"show", "--config", cfgPath, "--seed", seedPath)
	if res.Err == nil {
		t.Fatal("expected malformed config to fail")
	}
	if got := cli.ExitCode(res.Err); got != cli.ExitError {
		t.Errorf("exit code = %d, want %d", got, cli.ExitError)
	}
}
