package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/models"
	commentservice "github.com/thenoetrevino/paso-threads/internal/services/comment"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

const boardTask types.TaskID = "PASO-12"

func loadBoard(t *testing.T) *File {
	t.Helper()
	f, err := Load(filepath.Join("testdata", "board.yaml"))
	if err != nil {
		t.Fatalf("Load(board.yaml): %v", err)
	}
	return f
}

func TestLoad(t *testing.T) {
	f := loadBoard(t)

	if got := f.TaskIDs(); !slices.Equal(got, []types.TaskID{"PASO-12", "PASO-13"}) {
		t.Errorf("TaskIDs() = %v", got)
	}
	task, ok := f.Task(boardTask)
	if !ok {
		t.Fatal("PASO-12 missing")
	}
	if len(task.Comments) != 4 {
		t.Fatalf("got %d comments, want 4", len(task.Comments))
	}

	var c1a models.Comment
	for _, c := range task.Comments {
		if c.ID == "c1a" {
			c1a = c
		}
	}
	if c1a.ParentID != "c1" || c1a.CreatedAt.Hour() != 9 || c1a.CreatedAt.Minute() != 10 {
		t.Errorf("c1a decoded as %+v", c1a)
	}
	if len(c1a.Attachments) != 1 || c1a.Attachments[0].Size != 20480 {
		t.Errorf("c1a attachments = %+v", c1a.Attachments)
	}
	if len(f.Operations) != 6 {
		t.Errorf("got %d operations, want 6", len(f.Operations))
	}
	if _, ok := f.Task("nope"); ok {
		t.Error("Task(nope) should not be found")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"no tasks", "tasks: []\n", ErrNoTasks},
		{"empty task id", "tasks:\n  - title: x\n", models.ErrEmptyTaskID},
		{"duplicate task", "tasks:\n  - id: a\n  - id: a\n", ErrDuplicateTask},
		{"unknown op", "tasks:\n  - id: a\noperations:\n  - op: rename\n", ErrUnknownOperation},
		{"add without content", "tasks:\n  - id: a\noperations:\n  - op: add\n", ErrMissingField},
		{"delete without target", "tasks:\n  - id: a\noperations:\n  - op: delete\n", ErrMissingField},
		{"like without user", "tasks:\n  - id: a\noperations:\n  - op: like\n    target: c1\n", ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse([]byte("tasks: [")); !errors.Is(err, ErrMalformed) {
		t.Error("Parse() should reject malformed YAML")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadAllAndRun(t *testing.T) {
	f := loadBoard(t)
	store := commenttree.New()
	svc := commentservice.NewService(store, commentservice.Limits{})
	ctx := context.Background()

	if err := LoadAll(ctx, svc, f); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if store.Len(boardTask) != 4 || store.Len("PASO-13") != 0 {
		t.Fatalf("loaded %d/%d comments", store.Len(boardTask), store.Len("PASO-13"))
	}

	outcomes := Run(ctx, svc, f.Operations, boardTask)
	if len(outcomes) != 6 {
		t.Fatalf("got %d outcomes, want 6", len(outcomes))
	}

	for _, i := range []int{0, 1, 2, 3, 5} {
		if outcomes[i].Err != nil {
			t.Errorf("operation %d failed: %v", outcomes[i].Index, outcomes[i].Err)
		}
	}

	// the like targeted the comment created under ref "fix"
	if outcomes[1].CommentID != outcomes[0].CommentID {
		t.Errorf("ref not resolved: like hit %s, add created %s", outcomes[1].CommentID, outcomes[0].CommentID)
	}
	fix, err := store.Comment(boardTask, outcomes[0].CommentID)
	if err != nil {
		t.Fatal(err)
	}
	if fix.ParentID != "c1a" || !fix.IsLikedBy("bob") {
		t.Errorf("scripted reply = %+v", fix)
	}

	if !slices.Equal(outcomes[3].Removed, []types.CommentID{"c1b"}) {
		t.Errorf("delete removed %v", outcomes[3].Removed)
	}

	ghost := outcomes[4]
	if !ghost.NoOp() || !errors.Is(ghost.Err, models.ErrParentNotFound) {
		t.Errorf("reply to ghost outcome = %+v", ghost)
	}

	if outcomes[5].TaskID != "PASO-13" || store.Len("PASO-13") != 1 {
		t.Errorf("task override not honored: %+v", outcomes[5])
	}

	threads := store.Forest(boardTask)
	if len(threads) != 2 || threads[0].ID != "c1" || threads[1].ID != "c2" {
		t.Fatalf("unexpected roots after script")
	}
	if got := len(threads[0].Replies); got != 1 {
		t.Errorf("c1 has %d replies, want 1 (c1b deleted)", got)
	}
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	svc := commentservice.NewService(commenttree.New(), commentservice.Limits{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := "x"
	outcomes := Run(ctx, svc, []Operation{{Op: OpAdd, Content: &content}}, boardTask)
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes from a cancelled run", len(outcomes))
	}
}
