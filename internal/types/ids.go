package types

// ID type aliases provide semantic meaning for the identifiers that flow
// through the comment store. Comment and user identifiers are opaque strings
// (uuids for comments, usernames for users); task identifiers are whatever the
// surrounding board uses, rendered as strings.

// TaskID identifies the task that owns a comment forest
type TaskID string

// CommentID identifies a unique comment within a task forest.
// The zero value marks the absence of a parent (a top-level comment).
type CommentID string

// UserID identifies a board user (comment author, liker)
type UserID string

// NoParent is the ParentID of a top-level comment
const NoParent CommentID = ""

// String implements fmt.Stringer
func (id TaskID) String() string {
	return string(id)
}

func (id CommentID) String() string {
	return string(id)
}

func (id UserID) String() string {
	return string(id)
}

// IsRoot reports whether the id, used as a parent id, denotes the top level
func (id CommentID) IsRoot() bool {
	return id == NoParent
}
