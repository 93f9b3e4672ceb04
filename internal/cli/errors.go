package cli

import "errors"

// CLI errors
var (
	ErrUsage            = errors.New("invalid usage")
	ErrTaskNotFound     = errors.New("task not found in seed file")
	ErrOperationsFailed = errors.New("one or more operations failed")
)
