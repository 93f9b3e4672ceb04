package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/paso-threads/internal/models"
	commentservice "github.com/thenoetrevino/paso-threads/internal/services/comment"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// Outcome reports what one scripted operation did
type Outcome struct {
	Index     int // 1-based position in the script
	Op        Operation
	TaskID    types.TaskID
	CommentID types.CommentID
	Removed   []types.CommentID
	Err       error
}

// NoOp reports whether the operation left the store untouched because its
// target or parent was missing
func (o Outcome) NoOp() bool {
	return errors.Is(o.Err, models.ErrCommentNotFound) || errors.Is(o.Err, models.ErrParentNotFound)
}

// LoadAll replaces the forest of every task in f
func LoadAll(ctx context.Context, svc commentservice.Service, f *File) error {
	for _, t := range f.Tasks {
		if err := svc.LoadComments(ctx, t.ID, t.Comments); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	return nil
}

// Run applies ops in order. Operations without a task use defaultTask.
// A failing operation does not stop the script; its error is in the outcome.
func Run(ctx context.Context, svc commentservice.Service, ops []Operation, defaultTask types.TaskID) []Outcome {
	refs := make(map[string]types.CommentID)
	resolve := func(s string) types.CommentID {
		if id, ok := refs[s]; ok {
			return id
		}
		return types.CommentID(s)
	}

	outcomes := make([]Outcome, 0, len(ops))
	for i, op := range ops {
		if ctx.Err() != nil {
			break
		}

		taskID := op.Task
		if taskID == "" {
			taskID = defaultTask
		}
		out := Outcome{Index: i + 1, Op: op, TaskID: taskID}

		switch op.Op {
		case OpAdd:
			var content string
			if op.Content != nil {
				content = *op.Content
			}
			req := commentservice.CreateCommentRequest{
				TaskID:   taskID,
				ParentID: resolve(op.Parent),
				Content:  content,
				Author:   op.Author,
			}
			if op.Attachments != nil {
				req.Attachments = *op.Attachments
			}
			c, err := svc.CreateComment(ctx, req)
			out.Err = err
			if err == nil {
				out.CommentID = c.ID
				if op.Ref != "" {
					refs[op.Ref] = c.ID
				}
			}

		case OpUpdate:
			out.CommentID = resolve(op.Target)
			_, out.Err = svc.UpdateComment(ctx, commentservice.UpdateCommentRequest{
				TaskID:      taskID,
				CommentID:   out.CommentID,
				Content:     op.Content,
				Attachments: op.Attachments,
			})

		case OpDelete:
			out.CommentID = resolve(op.Target)
			out.Removed, out.Err = svc.DeleteComment(ctx, taskID, out.CommentID)

		case OpLike:
			out.CommentID = resolve(op.Target)
			_, out.Err = svc.LikeComment(ctx, taskID, out.CommentID, op.User)

		case OpUnlike:
			out.CommentID = resolve(op.Target)
			_, out.Err = svc.UnlikeComment(ctx, taskID, out.CommentID, op.User)

		default:
			out.Err = fmt.Errorf("%w %q", ErrUnknownOperation, op.Op)
		}

		if out.Err != nil {
			slog.Debug("scripted operation failed",
				"index", out.Index,
				"op", op.Op,
				"task_id", taskID,
				"error", out.Err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
