package events

import (
	"time"

	"github.com/thenoetrevino/paso-threads/internal/types"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventForestReplaced EventType = "forest_replaced"
	EventCommentAdded   EventType = "comment_added"
	EventCommentUpdated EventType = "comment_updated"
	EventCommentDeleted EventType = "comment_deleted"
)

// Event represents a comment store change notification
type Event struct {
	Type      EventType
	TaskID    types.TaskID      // For filtering - which forest was modified
	CommentID types.CommentID   // Empty for forest_replaced
	Removed   []types.CommentID // Every id removed by a comment_deleted, subtree included
	Timestamp time.Time         // When the event occurred
	// SequenceID is a monotonically increasing number assigned by the bus
	SequenceID int64
}

// AllTasks subscribes to events of every task
const AllTasks types.TaskID = ""

// Matches reports whether a subscriber filtering on taskID should see the event
func (e Event) Matches(taskID types.TaskID) bool {
	return taskID == AllTasks || e.TaskID == AllTasks || e.TaskID == taskID
}
