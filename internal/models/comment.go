package models

import (
	"slices"
	"time"

	"github.com/thenoetrevino/paso-threads/internal/types"
)

// Comment represents a single node of a task's comment forest.
// ID, TaskID, ParentID, Author and CreatedAt are fixed at creation; only
// Content, UpdatedAt, LikedBy and Attachments change afterwards.
type Comment struct {
	ID          types.CommentID `json:"id" yaml:"id"`
	TaskID      types.TaskID    `json:"task_id" yaml:"task_id"`
	ParentID    types.CommentID `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Content     string          `json:"content" yaml:"content"`
	Author      types.UserID    `json:"author" yaml:"author"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
	LikedBy     []types.UserID  `json:"liked_by,omitempty" yaml:"liked_by,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

// Attachment is a file reference carried by a comment
type Attachment struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// IsReply reports whether the comment answers another comment
func (c *Comment) IsReply() bool {
	return !c.ParentID.IsRoot()
}

// IsEdited reports whether the content was changed after creation
func (c *Comment) IsEdited() bool {
	return !c.UpdatedAt.IsZero() && c.UpdatedAt.After(c.CreatedAt)
}

// IsLikedBy reports whether user is in the LikedBy set
func (c *Comment) IsLikedBy(user types.UserID) bool {
	return slices.Contains(c.LikedBy, user)
}

// Clone returns a deep copy so callers can hand out snapshots that never
// alias store-owned slices.
func (c Comment) Clone() Comment {
	c.LikedBy = slices.Clone(c.LikedBy)
	c.Attachments = slices.Clone(c.Attachments)
	return c
}

// Before orders two siblings: ascending CreatedAt, ties broken by ID so the
// order is deterministic.
func (c *Comment) Before(other *Comment) bool {
	if !c.CreatedAt.Equal(other.CreatedAt) {
		return c.CreatedAt.Before(other.CreatedAt)
	}
	return c.ID < other.ID
}

// CompareComments is the sibling ordering as a slices.SortFunc comparator
func CompareComments(a, b Comment) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// CommentPatch carries the mutable fields of an update.
// Fields with pointers are optional - nil means don't update.
type CommentPatch struct {
	Content     *string
	Attachments *[]Attachment
	LikedBy     *[]types.UserID
	UpdatedAt   *time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p CommentPatch) IsEmpty() bool {
	return p.Content == nil && p.Attachments == nil && p.LikedBy == nil && p.UpdatedAt == nil
}

// Apply returns the shallow merge of c and the patch: patch fields override,
// every other field is retained.
func (p CommentPatch) Apply(c Comment) Comment {
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Attachments != nil {
		c.Attachments = slices.Clone(*p.Attachments)
	}
	if p.LikedBy != nil {
		c.LikedBy = NormalizeUsers(*p.LikedBy)
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
	return c
}

// NormalizeUsers turns a user list into a sorted set without empty entries
func NormalizeUsers(users []types.UserID) []types.UserID {
	if len(users) == 0 {
		return nil
	}
	out := make([]types.UserID, 0, len(users))
	for _, u := range users {
		if u != "" {
			out = append(out, u)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Thread is a comment materialized as a tree node with its ordered replies
type Thread struct {
	Comment
	Replies []*Thread `json:"replies,omitempty" yaml:"replies,omitempty"`
}

// Size returns the number of comments in the thread, itself included
func (t *Thread) Size() int {
	n := 1
	for _, r := range t.Replies {
		n += r.Size()
	}
	return n
}
