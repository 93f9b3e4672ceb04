package comment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

const task types.TaskID = "PASO-12"

// setupTestService returns a service with a deterministic clock and id source
func setupTestService(t *testing.T, limits Limits) (*service, *commenttree.Store) {
	t.Helper()
	store := commenttree.New()
	svc := NewService(store, limits).(*service)

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	next := 0
	svc.newID = func() string {
		next++
		return fmt.Sprintf("id-%02d", next)
	}
	return svc, store
}

func create(t *testing.T, svc Service, parent types.CommentID, content string) *models.Comment {
	t.Helper()
	c, err := svc.CreateComment(context.Background(), CreateCommentRequest{
		TaskID:   task,
		ParentID: parent,
		Content:  content,
		Author:   "alice",
	})
	if err != nil {
		t.Fatalf("CreateComment(%q): %v", content, err)
	}
	return c
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateComment(t *testing.T) {
	svc, store := setupTestService(t, Limits{})
	ctx := context.Background()

	root := create(t, svc, "", "first")
	reply := create(t, svc, root.ID, "answer")

	if root.ID != "id-01" || reply.ID != "id-02" {
		t.Errorf("ids = %s, %s", root.ID, reply.ID)
	}
	if !reply.CreatedAt.After(root.CreatedAt) {
		t.Error("reply should be stamped after its parent")
	}

	threads, err := svc.GetThread(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	if len(threads) != 1 || len(threads[0].Replies) != 1 || threads[0].Replies[0].ID != reply.ID {
		t.Errorf("unexpected thread shape: %+v", threads)
	}
	if store.Len(task) != 2 {
		t.Errorf("store holds %d comments, want 2", store.Len(task))
	}
}

func TestCreateComment_DefaultAuthor(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	c, err := svc.CreateComment(context.Background(), CreateCommentRequest{TaskID: task, Content: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Author == "" {
		t.Error("Author should default to the current user")
	}
}

func TestCreateComment_Validation(t *testing.T) {
	svc, store := setupTestService(t, Limits{MaxCommentLength: 10, MaxAttachments: 1})
	valid := models.Attachment{Name: "a.txt", URL: "file:///a.txt"}

	tests := []struct {
		name    string
		req     CreateCommentRequest
		wantErr error
	}{
		{"missing task", CreateCommentRequest{Content: "x"}, ErrEmptyTaskID},
		{"empty content", CreateCommentRequest{TaskID: task, Content: "   "}, ErrEmptyContent},
		{"too long", CreateCommentRequest{TaskID: task, Content: strings.Repeat("x", 11)}, ErrContentTooLong},
		{"too many attachments", CreateCommentRequest{TaskID: task, Content: "x", Attachments: []models.Attachment{valid, valid}}, ErrTooManyAttachments},
		{"attachment without url", CreateCommentRequest{TaskID: task, Content: "x", Attachments: []models.Attachment{{Name: "a"}}}, ErrInvalidAttachment},
		{"missing parent", CreateCommentRequest{TaskID: task, ParentID: "ghost", Content: "x"}, models.ErrParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateComment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if store.Len(task) != 0 {
		t.Errorf("rejected requests stored %d comments", store.Len(task))
	}
}

func TestCreateComment_LengthCountsRunes(t *testing.T) {
	svc, _ := setupTestService(t, Limits{MaxCommentLength: 3})
	if _, err := svc.CreateComment(context.Background(), CreateCommentRequest{TaskID: task, Content: "日本語", Author: "a"}); err != nil {
		t.Errorf("three runes should fit a limit of 3: %v", err)
	}
}

func TestCreateComment_StampsAttachmentIDs(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	c, err := svc.CreateComment(context.Background(), CreateCommentRequest{
		TaskID:  task,
		Content: "see attached",
		Author:  "alice",
		Attachments: []models.Attachment{
			{Name: "a.png", URL: "https://files.example/a.png"},
			{ID: "keep", Name: "b.png", URL: "https://files.example/b.png"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Attachments[0].ID == "" || c.Attachments[1].ID != "keep" {
		t.Errorf("attachment ids = %q, %q", c.Attachments[0].ID, c.Attachments[1].ID)
	}
}

func TestCreateComment_CancelledContext(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.CreateComment(ctx, CreateCommentRequest{TaskID: task, Content: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewService_GeneratesUUIDs(t *testing.T) {
	svc := NewService(commenttree.New(), Limits{})
	c, err := svc.CreateComment(context.Background(), CreateCommentRequest{TaskID: task, Content: "x", Author: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(string(c.ID)); err != nil {
		t.Errorf("comment id %q is not a uuid: %v", c.ID, err)
	}
}

// ============================================================================
// UPDATE / DELETE
// ============================================================================

func TestUpdateComment(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	ctx := context.Background()
	root := create(t, svc, "", "first")
	create(t, svc, root.ID, "reply")

	content := "first, edited"
	updated, err := svc.UpdateComment(ctx, UpdateCommentRequest{TaskID: task, CommentID: root.ID, Content: &content})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Content != content {
		t.Errorf("Content = %q, want %q", updated.Content, content)
	}
	if !updated.IsEdited() {
		t.Error("updated comment should be marked edited")
	}
	if !updated.CreatedAt.Equal(root.CreatedAt) || updated.Author != root.Author {
		t.Error("immutable fields changed")
	}

	threads, _ := svc.GetThread(ctx, task)
	if len(threads[0].Replies) != 1 {
		t.Error("update lost the reply subtree")
	}
}

func TestUpdateComment_Errors(t *testing.T) {
	svc, _ := setupTestService(t, Limits{MaxCommentLength: 5})
	ctx := context.Background()
	root := create(t, svc, "", "abc")

	long := "toolong"
	empty := ""
	ok := "ok"
	tests := []struct {
		name    string
		req     UpdateCommentRequest
		wantErr error
	}{
		{"no fields", UpdateCommentRequest{TaskID: task, CommentID: root.ID}, ErrEmptyUpdate},
		{"no task", UpdateCommentRequest{CommentID: root.ID, Content: &ok}, ErrEmptyTaskID},
		{"no comment", UpdateCommentRequest{TaskID: task, Content: &ok}, ErrInvalidCommentID},
		{"too long", UpdateCommentRequest{TaskID: task, CommentID: root.ID, Content: &long}, ErrContentTooLong},
		{"empty", UpdateCommentRequest{TaskID: task, CommentID: root.ID, Content: &empty}, ErrEmptyContent},
		{"missing", UpdateCommentRequest{TaskID: task, CommentID: "ghost", Content: &ok}, models.ErrCommentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdateComment(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateComment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, _ := svc.GetComment(ctx, task, root.ID)
	if got.Content != "abc" {
		t.Errorf("failed updates changed content to %q", got.Content)
	}
}

func TestUpdateComment_Attachments(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	root := create(t, svc, "", "abc")

	attachments := []models.Attachment{{Name: "log.txt", URL: "https://files.example/log.txt"}}
	updated, err := svc.UpdateComment(context.Background(), UpdateCommentRequest{
		TaskID:      task,
		CommentID:   root.ID,
		Attachments: &attachments,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Attachments) != 1 || updated.Attachments[0].ID == "" {
		t.Errorf("Attachments = %+v", updated.Attachments)
	}
	if updated.Content != "abc" {
		t.Errorf("Content = %q, should be retained", updated.Content)
	}
}

func TestDeleteComment(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	ctx := context.Background()
	root := create(t, svc, "", "root")
	a := create(t, svc, root.ID, "a")
	b := create(t, svc, a.ID, "b")
	other := create(t, svc, "", "other")

	removed, err := svc.DeleteComment(ctx, task, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(removed, []types.CommentID{root.ID, a.ID, b.ID}) {
		t.Errorf("removed = %v", removed)
	}

	list, _ := svc.ListComments(ctx, task)
	if len(list) != 1 || list[0].ID != other.ID {
		t.Errorf("remaining = %+v", list)
	}

	if _, err := svc.DeleteComment(ctx, task, root.ID); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("second delete error = %v, want ErrCommentNotFound", err)
	}
	if _, err := svc.DeleteComment(ctx, task, ""); !errors.Is(err, ErrInvalidCommentID) {
		t.Errorf("empty id error = %v, want ErrInvalidCommentID", err)
	}
}

// ============================================================================
// REACTIONS / READS
// ============================================================================

func TestLikeUnlikeComment(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	ctx := context.Background()
	root := create(t, svc, "", "root")

	liked, err := svc.LikeComment(ctx, task, root.ID, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if !liked.IsLikedBy("bob") {
		t.Error("bob should like the comment")
	}

	unliked, err := svc.UnlikeComment(ctx, task, root.ID, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if unliked.IsLikedBy("bob") {
		t.Error("bob should no longer like the comment")
	}

	if _, err := svc.LikeComment(ctx, task, root.ID, ""); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("empty user error = %v, want ErrInvalidUser", err)
	}
	if _, err := svc.UnlikeComment(ctx, task, "ghost", "bob"); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("missing comment error = %v, want ErrCommentNotFound", err)
	}
}

func TestLoadCommentsAndGetReplies(t *testing.T) {
	svc, _ := setupTestService(t, Limits{})
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	flat := []models.Comment{
		{ID: "r2", ParentID: "root", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "root", CreatedAt: base},
		{ID: "r1", ParentID: "root", CreatedAt: base.Add(time.Minute)},
	}
	if err := svc.LoadComments(ctx, task, flat); err != nil {
		t.Fatal(err)
	}

	replies, err := svc.GetReplies(ctx, task, "root")
	if err != nil {
		t.Fatal(err)
	}
	if len(replies) != 2 || replies[0].ID != "r1" || replies[1].ID != "r2" {
		t.Errorf("replies = %+v", replies)
	}

	if _, err := svc.GetReplies(ctx, task, "ghost"); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("GetReplies(ghost) error = %v", err)
	}
	if err := svc.LoadComments(ctx, "", nil); !errors.Is(err, ErrEmptyTaskID) {
		t.Errorf("LoadComments without task error = %v", err)
	}
	// the service and the store report a missing task with one sentinel
	if _, err := svc.GetThread(ctx, ""); !errors.Is(err, models.ErrEmptyTaskID) {
		t.Errorf("GetThread without task error = %v, want models.ErrEmptyTaskID", err)
	}
}
