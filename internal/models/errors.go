package models

import "errors"

// Domain-specific errors shared by the store and the service layer
var (
	// ErrCommentNotFound indicates the target comment is not in the task forest
	ErrCommentNotFound = errors.New("comment not found")

	// ErrParentNotFound indicates a reply names a parent that is not in the task forest
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrDuplicateComment indicates a comment id is already used in the task forest
	ErrDuplicateComment = errors.New("comment already exists")

	// ErrTaskMismatch indicates a comment carries a different task id than the forest it is added to
	ErrTaskMismatch = errors.New("comment belongs to a different task")

	// ErrEmptyCommentID indicates a comment without an id
	ErrEmptyCommentID = errors.New("comment ID cannot be empty")

	// ErrEmptyTaskID indicates an operation without a task id
	ErrEmptyTaskID = errors.New("task ID cannot be empty")
)
