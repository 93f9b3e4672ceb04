package comment

import (
	"errors"

	"github.com/thenoetrevino/paso-threads/internal/models"
)

// Comment-related errors
var (
	// Validation errors
	ErrEmptyTaskID        = models.ErrEmptyTaskID
	ErrInvalidCommentID   = errors.New("invalid comment ID")
	ErrEmptyContent       = errors.New("comment content cannot be empty")
	ErrContentTooLong     = errors.New("comment content exceeds the configured length limit")
	ErrTooManyAttachments = errors.New("comment carries more attachments than allowed")
	ErrInvalidAttachment  = errors.New("attachment needs a name and a URL")
	ErrEmptyUpdate        = errors.New("update request changes nothing")
	ErrInvalidUser        = errors.New("invalid user ID")
)
