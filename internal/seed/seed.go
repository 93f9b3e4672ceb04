// Package seed reads the YAML documents the CLI feeds into the comment store:
// per-task flat comment lists for bulk loading and scripted operations.
// Nothing is ever written back.
package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
	"gopkg.in/yaml.v3"
)

// Seed-file errors
var (
	ErrNoTasks          = errors.New("seed file defines no tasks")
	ErrDuplicateTask    = errors.New("task defined twice in seed file")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingField     = errors.New("operation is missing a required field")
	ErrMalformed        = errors.New("malformed seed file")
)

// File is a parsed seed document
type File struct {
	Tasks      []Task      `yaml:"tasks"`
	Operations []Operation `yaml:"operations"`
}

// Task is the flat comment list of one task
type Task struct {
	ID       types.TaskID     `yaml:"id"`
	Title    string           `yaml:"title"`
	Comments []models.Comment `yaml:"comments"`
}

// OpKind names a scripted store operation
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
	OpLike   OpKind = "like"
	OpUnlike OpKind = "unlike"
)

// Operation is one scripted mutation. Ref labels the comment created by an
// add so later operations can target it by that label.
type Operation struct {
	Op          OpKind               `yaml:"op"`
	Task        types.TaskID         `yaml:"task"`
	Ref         string               `yaml:"ref,omitempty"`
	Target      string               `yaml:"target,omitempty"`
	Parent      string               `yaml:"parent,omitempty"`
	Author      types.UserID         `yaml:"author,omitempty"`
	User        types.UserID         `yaml:"user,omitempty"`
	Content     *string              `yaml:"content,omitempty"`
	Attachments *[]models.Attachment `yaml:"attachments,omitempty"`
}

// Load reads and validates a seed file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a seed document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structural requirements of the document. Comment
// structure (orphans, ordering) is not checked: the store accepts any list.
func (f *File) Validate() error {
	if len(f.Tasks) == 0 {
		return ErrNoTasks
	}

	seen := make(map[types.TaskID]bool, len(f.Tasks))
	for i, t := range f.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d: %w", i, models.ErrEmptyTaskID)
		}
		if seen[t.ID] {
			return fmt.Errorf("task %s: %w", t.ID, ErrDuplicateTask)
		}
		seen[t.ID] = true
	}

	for i, op := range f.Operations {
		if err := op.validate(); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i+1, op.Op, err)
		}
	}
	return nil
}

func (op Operation) validate() error {
	switch op.Op {
	case OpAdd:
		if op.Content == nil {
			return fmt.Errorf("%w: content", ErrMissingField)
		}
	case OpUpdate:
		if op.Target == "" {
			return fmt.Errorf("%w: target", ErrMissingField)
		}
	case OpDelete:
		if op.Target == "" {
			return fmt.Errorf("%w: target", ErrMissingField)
		}
	case OpLike, OpUnlike:
		if op.Target == "" || op.User == "" {
			return fmt.Errorf("%w: target and user", ErrMissingField)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownOperation, op.Op)
	}
	return nil
}

// Task returns the task with id, or false
func (f *File) Task(id types.TaskID) (Task, bool) {
	for _, t := range f.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TaskIDs returns the task ids in document order
func (f *File) TaskIDs() []types.TaskID {
	ids := make([]types.TaskID, len(f.Tasks))
	for i, t := range f.Tasks {
		ids[i] = t.ID
	}
	return ids
}
