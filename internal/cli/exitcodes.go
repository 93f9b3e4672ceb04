package cli

import (
	"errors"
	"os"

	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/seed"
	commentservice "github.com/thenoetrevino/paso-threads/internal/services/comment"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: unexpected failures or any error that doesn't fit the
	// specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Missing seed file, unknown task, unknown comment or parent.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Seed files that are not valid YAML.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Seed files or scripted operations that fail validation rules.
	ExitValidation = 5
)

// ExitCode maps an error returned by a command to its process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, models.ErrCommentNotFound),
		errors.Is(err, models.ErrParentNotFound):
		return ExitNotFound
	case errors.Is(err, seed.ErrMalformed):
		return ExitDataErr
	case errors.Is(err, ErrOperationsFailed),
		errors.Is(err, seed.ErrNoTasks),
		errors.Is(err, seed.ErrDuplicateTask),
		errors.Is(err, seed.ErrUnknownOperation),
		errors.Is(err, seed.ErrMissingField),
		errors.Is(err, models.ErrEmptyTaskID),
		errors.Is(err, models.ErrEmptyCommentID),
		errors.Is(err, models.ErrDuplicateComment),
		errors.Is(err, commentservice.ErrInvalidCommentID),
		errors.Is(err, commentservice.ErrInvalidUser),
		errors.Is(err, commentservice.ErrEmptyUpdate),
		errors.Is(err, commentservice.ErrEmptyContent),
		errors.Is(err, commentservice.ErrContentTooLong),
		errors.Is(err, commentservice.ErrTooManyAttachments),
		errors.Is(err, commentservice.ErrInvalidAttachment):
		return ExitValidation
	default:
		return ExitError
	}
}

// ErrorCode returns the machine-readable code reported in JSON errors
func ErrorCode(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitDataErr:
		return "MALFORMED_DATA"
	case ExitValidation:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
