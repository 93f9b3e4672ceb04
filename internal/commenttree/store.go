// Package commenttree holds the per-task forests of nested comments.
//
// A Store owns one forest per task. Mutations go through AddComment,
// UpdateComment, DeleteComment, LikeComment, UnlikeComment and SetForest
// only; readers get deep-copied snapshots. Operations that find nothing to
// do return an error wrapping a models sentinel and leave the forest
// untouched.
package commenttree

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/thenoetrevino/paso-threads/internal/events"
	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// Snapshot is the complete state of one task forest at a point in time
type Snapshot struct {
	TaskID types.TaskID
	// Comments is every stored comment, depth-first in sibling order
	Comments []models.Comment
	// Version increases by one with every mutation of this task's forest
	Version uint64
}

// Threads builds the ordered reply tree of the snapshot
func (s Snapshot) Threads() []*models.Thread {
	return BuildTree(s.Comments, types.NoParent)
}

// Listener receives a snapshot after every mutation of the task it was
// registered for. It runs outside the store lock and may read the store.
// Listeners of the same mutation share the snapshot and must not modify it.
type Listener func(Snapshot)

type listener struct {
	taskID types.TaskID
	fn     Listener
}

// Store is the comment tree store for every task of a board
type Store struct {
	mu        sync.RWMutex
	forests   map[types.TaskID]*forest
	listeners map[int]listener
	nextID    int
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an empty store
func New(opts ...Option) *Store {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	return &Store{
		forests:   make(map[types.TaskID]*forest),
		listeners: make(map[int]listener),
		publisher: cfg.publisher,
		logger:    cfg.logger,
		now:       cfg.now,
	}
}

// ============================================================================
// WRITE OPERATIONS
// ============================================================================

// SetForest replaces the entire stored collection for a task. Any ordering,
// orphans and duplicate ids are accepted; ordering is established here for
// reads. A comment without an id rejects the whole list with
// ErrEmptyCommentID and leaves the forest untouched.
func (s *Store) SetForest(taskID types.TaskID, flat []models.Comment) error {
	if taskID == "" {
		return models.ErrEmptyTaskID
	}
	for i, c := range flat {
		if c.ID == "" {
			return fmt.Errorf("comment %d of task %s: %w", i, taskID, models.ErrEmptyCommentID)
		}
	}

	s.mu.Lock()
	f := s.forestLocked(taskID)
	f.load(taskID, flat)
	snap := s.snapshotLocked(taskID, f, true)
	s.mu.Unlock()

	s.logger.Debug("comment forest replaced", "task_id", taskID, "comments", len(snap.Comments))
	s.notify(snap, events.Event{Type: events.EventForestReplaced, TaskID: taskID})
	return nil
}

// AddComment inserts c as a top-level comment (empty ParentID) or as a reply
// to the comment named by ParentID, keeping its siblings ordered by CreatedAt.
// A reply to a parent that is missing, or stored but not reachable from the
// top level, returns ErrParentNotFound and inserts nothing.
func (s *Store) AddComment(taskID types.TaskID, c models.Comment) error {
	if taskID == "" {
		return models.ErrEmptyTaskID
	}
	if c.ID == "" {
		return models.ErrEmptyCommentID
	}
	if c.TaskID == "" {
		c.TaskID = taskID
	}
	if c.TaskID != taskID {
		return fmt.Errorf("comment %s for task %s added to task %s: %w", c.ID, c.TaskID, taskID, models.ErrTaskMismatch)
	}

	s.mu.Lock()
	f := s.forests[taskID]
	if f != nil && f.nodes[c.ID] != nil {
		s.mu.Unlock()
		return fmt.Errorf("comment %s: %w", c.ID, models.ErrDuplicateComment)
	}
	if c.IsReply() && (f == nil || !f.reachable(c.ParentID)) {
		s.mu.Unlock()
		s.logger.Warn("reply dropped, parent not in forest",
			"task_id", taskID, "comment_id", c.ID, "parent_id", c.ParentID)
		return fmt.Errorf("reply %s to %s: %w", c.ID, c.ParentID, models.ErrParentNotFound)
	}

	f = s.forestLocked(taskID)
	c = c.Clone()
	c.LikedBy = models.NormalizeUsers(c.LikedBy)
	f.insert(&c)
	snap := s.snapshotLocked(taskID, f, true)
	s.mu.Unlock()

	s.logger.Debug("comment added", "task_id", taskID, "comment_id", c.ID, "parent_id", c.ParentID)
	s.notify(snap, events.Event{Type: events.EventCommentAdded, TaskID: taskID, CommentID: c.ID})
	return nil
}

// UpdateComment replaces the comment targetID with the shallow merge of its
// fields and patch. Its position among siblings and its replies are untouched.
func (s *Store) UpdateComment(taskID types.TaskID, targetID types.CommentID, patch models.CommentPatch) (models.Comment, error) {
	return s.modify(taskID, targetID, func(c models.Comment) (models.Comment, bool) {
		if patch.IsEmpty() {
			return c, false
		}
		return patch.Apply(c), true
	})
}

// LikeComment adds user to the LikedBy set of targetID
func (s *Store) LikeComment(taskID types.TaskID, targetID types.CommentID, user types.UserID) (models.Comment, error) {
	return s.modify(taskID, targetID, func(c models.Comment) (models.Comment, bool) {
		if user == "" || c.IsLikedBy(user) {
			return c, false
		}
		c.LikedBy = models.NormalizeUsers(append(slices.Clone(c.LikedBy), user))
		return c, true
	})
}

// UnlikeComment removes user from the LikedBy set of targetID
func (s *Store) UnlikeComment(taskID types.TaskID, targetID types.CommentID, user types.UserID) (models.Comment, error) {
	return s.modify(taskID, targetID, func(c models.Comment) (models.Comment, bool) {
		if !c.IsLikedBy(user) {
			return c, false
		}
		c.LikedBy = slices.DeleteFunc(slices.Clone(c.LikedBy), func(u types.UserID) bool { return u == user })
		if len(c.LikedBy) == 0 {
			c.LikedBy = nil
		}
		return c, true
	})
}

// modify applies fn to a copy of targetID and swaps it in when fn reports a change
func (s *Store) modify(taskID types.TaskID, targetID types.CommentID, fn func(models.Comment) (models.Comment, bool)) (models.Comment, error) {
	s.mu.Lock()
	f := s.forests[taskID]
	if f == nil || f.nodes[targetID] == nil {
		s.mu.Unlock()
		s.logger.Warn("comment update ignored, comment not in forest", "task_id", taskID, "comment_id", targetID)
		return models.Comment{}, fmt.Errorf("comment %s in task %s: %w", targetID, taskID, models.ErrCommentNotFound)
	}

	current := *f.nodes[targetID]
	next, changed := fn(current.Clone())
	if !changed {
		s.mu.Unlock()
		return current.Clone(), nil
	}

	// Identity fields are fixed at creation whatever fn returned.
	next.ID = current.ID
	next.TaskID = current.TaskID
	next.ParentID = current.ParentID
	next.Author = current.Author
	next.CreatedAt = current.CreatedAt

	f.nodes[targetID] = &next
	snap := s.snapshotLocked(taskID, f, true)
	s.mu.Unlock()

	s.logger.Debug("comment updated", "task_id", taskID, "comment_id", targetID)
	s.notify(snap, events.Event{Type: events.EventCommentUpdated, TaskID: taskID, CommentID: targetID})
	return next.Clone(), nil
}

// DeleteComment removes targetID and every transitive reply. It returns the
// removed ids, parents before children.
func (s *Store) DeleteComment(taskID types.TaskID, targetID types.CommentID) ([]types.CommentID, error) {
	s.mu.Lock()
	f := s.forests[taskID]
	if f == nil || f.nodes[targetID] == nil {
		s.mu.Unlock()
		s.logger.Warn("comment delete ignored, comment not in forest", "task_id", taskID, "comment_id", targetID)
		return nil, fmt.Errorf("comment %s in task %s: %w", targetID, taskID, models.ErrCommentNotFound)
	}

	removed := f.remove(targetID)
	snap := s.snapshotLocked(taskID, f, true)
	s.mu.Unlock()

	s.logger.Debug("comment deleted", "task_id", taskID, "comment_id", targetID, "removed", len(removed))
	s.notify(snap, events.Event{
		Type:      events.EventCommentDeleted,
		TaskID:    taskID,
		CommentID: targetID,
		Removed:   slices.Clone(removed),
	})
	return removed, nil
}

// ============================================================================
// READ OPERATIONS
// ============================================================================

// Comments returns the flat collection of a task, depth-first in sibling order
func (s *Store) Comments(taskID types.TaskID) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.forests[taskID]
	if f == nil {
		return []models.Comment{}
	}
	return f.flat()
}

// Comment returns a copy of one comment
func (s *Store) Comment(taskID types.TaskID, id types.CommentID) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.forests[taskID]
	if f == nil || f.nodes[id] == nil {
		return models.Comment{}, fmt.Errorf("comment %s in task %s: %w", id, taskID, models.ErrCommentNotFound)
	}
	return f.nodes[id].Clone(), nil
}

// Forest returns the ordered reply trees of a task
func (s *Store) Forest(taskID types.TaskID) []*models.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.forests[taskID]
	if f == nil {
		return nil
	}
	return f.threads()
}

// Replies returns the ordered direct replies of a comment (NoParent for the top level)
func (s *Store) Replies(taskID types.TaskID, parentID types.CommentID) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.forests[taskID]
	if f == nil {
		return []models.Comment{}
	}
	out := make([]models.Comment, 0, len(f.children[parentID]))
	for _, id := range f.children[parentID] {
		out = append(out, f.nodes[id].Clone())
	}
	return out
}

// Snapshot returns the current state of a task forest
func (s *Store) Snapshot(taskID types.TaskID) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked(taskID, s.forests[taskID], false)
}

// Len returns the number of stored comments of a task
func (s *Store) Len(taskID types.TaskID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f := s.forests[taskID]; f != nil {
		return len(f.nodes)
	}
	return 0
}

// Tasks returns the ids of every task with a forest, sorted
func (s *Store) Tasks() []types.TaskID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]types.TaskID, 0, len(s.forests))
	for id := range s.forests {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ============================================================================
// SUBSCRIPTIONS
// ============================================================================

// Subscribe registers fn for taskID (empty for every task). fn is called
// once with the current snapshot, then after every mutation. The returned
// function unregisters it.
func (s *Store) Subscribe(taskID types.TaskID, fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener{taskID: taskID, fn: fn}
	var initial []Snapshot
	if taskID != "" {
		initial = append(initial, s.snapshotLocked(taskID, s.forests[taskID], false))
	} else {
		for tid, f := range s.forests {
			initial = append(initial, s.snapshotLocked(tid, f, false))
		}
		slices.SortFunc(initial, func(a, b Snapshot) int {
			switch {
			case a.TaskID < b.TaskID:
				return -1
			case a.TaskID > b.TaskID:
				return 1
			}
			return 0
		})
	}
	s.mu.Unlock()

	for _, snap := range initial {
		fn(snap)
	}

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Store) forestLocked(taskID types.TaskID) *forest {
	f := s.forests[taskID]
	if f == nil {
		f = newForest()
		s.forests[taskID] = f
	}
	return f
}

// snapshotLocked captures f; bump marks the capture as following a mutation
func (s *Store) snapshotLocked(taskID types.TaskID, f *forest, bump bool) Snapshot {
	if f == nil {
		return Snapshot{TaskID: taskID, Comments: []models.Comment{}}
	}
	if bump {
		f.version++
	}
	return Snapshot{TaskID: taskID, Comments: f.flat(), Version: f.version}
}

// notify runs the listeners of the snapshot's task and publishes the event
func (s *Store) notify(snap Snapshot, event events.Event) {
	s.mu.RLock()
	targets := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		l := s.listeners[id]
		if l.taskID == "" || l.taskID == snap.TaskID {
			targets = append(targets, l.fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range targets {
		fn(snap)
	}

	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now()
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn("failed to publish comment event",
			"event_type", event.Type,
			"task_id", event.TaskID,
			"error", err)
	}
}
