package commenttree

import (
	"slices"

	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// forest is the arena for one task: comments keyed by id plus a
// parent -> ordered children index. The top-level sibling set lives under
// types.NoParent. Stored comments are never mutated in place; an update
// swaps the pointer so snapshots handed out earlier stay valid.
type forest struct {
	nodes    map[types.CommentID]*models.Comment
	children map[types.CommentID][]types.CommentID
	version  uint64
}

func newForest() *forest {
	return &forest{
		nodes:    make(map[types.CommentID]*models.Comment),
		children: make(map[types.CommentID][]types.CommentID),
	}
}

// load replaces the forest content with flat. Duplicate ids keep the last
// occurrence. Comments whose parent is absent stay stored but are not
// reachable from the top level.
func (f *forest) load(taskID types.TaskID, flat []models.Comment) {
	f.nodes = make(map[types.CommentID]*models.Comment, len(flat))
	f.children = make(map[types.CommentID][]types.CommentID)

	for _, c := range flat {
		c = c.Clone()
		c.TaskID = taskID
		c.LikedBy = models.NormalizeUsers(c.LikedBy)
		f.nodes[c.ID] = &c
	}

	// A self-parented comment lands under its own id and is never reachable.
	for id, c := range f.nodes {
		f.children[c.ParentID] = append(f.children[c.ParentID], id)
	}
	for parent := range f.children {
		f.sortSiblings(parent)
	}
}

func (f *forest) sortSiblings(parent types.CommentID) {
	slices.SortFunc(f.children[parent], func(a, b types.CommentID) int {
		return models.CompareComments(*f.nodes[a], *f.nodes[b])
	})
}

// insert places c among its siblings keeping ascending CreatedAt order
func (f *forest) insert(c *models.Comment) {
	f.nodes[c.ID] = c
	siblings := f.children[c.ParentID]
	i, _ := slices.BinarySearchFunc(siblings, c, func(id types.CommentID, target *models.Comment) int {
		return models.CompareComments(*f.nodes[id], *target)
	})
	f.children[c.ParentID] = slices.Insert(siblings, i, c.ID)
}

// reachable reports whether id is stored and its parent chain ends at the
// top level. Orphans and cycles loaded through SetForest are not reachable.
func (f *forest) reachable(id types.CommentID) bool {
	visited := make(map[types.CommentID]bool)
	for {
		c := f.nodes[id]
		if c == nil || visited[id] {
			return false
		}
		if c.ParentID.IsRoot() {
			return true
		}
		visited[id] = true
		id = c.ParentID
	}
}

// subtree returns id and every transitive reply, parents before children.
// The visited set guards against cycles loaded through SetForest.
func (f *forest) subtree(id types.CommentID) []types.CommentID {
	var out []types.CommentID
	visited := make(map[types.CommentID]bool)
	stack := []types.CommentID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		kids := f.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// remove deletes id and its subtree, returning the removed ids
func (f *forest) remove(id types.CommentID) []types.CommentID {
	target := f.nodes[id]
	removed := f.subtree(id)

	parent := target.ParentID
	f.children[parent] = slices.DeleteFunc(f.children[parent], func(sib types.CommentID) bool {
		return sib == id
	})
	if len(f.children[parent]) == 0 {
		delete(f.children, parent)
	}

	for _, rid := range removed {
		delete(f.nodes, rid)
		delete(f.children, rid)
	}
	return removed
}

// flat returns every stored comment: the reachable forest depth-first in
// sibling order, followed by unreachable comments in CreatedAt order.
func (f *forest) flat() []models.Comment {
	out := make([]models.Comment, 0, len(f.nodes))
	seen := make(map[types.CommentID]bool, len(f.nodes))

	for _, root := range f.children[types.NoParent] {
		for _, id := range f.subtree(root) {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, f.nodes[id].Clone())
		}
	}

	if len(seen) == len(f.nodes) {
		return out
	}

	orphans := make([]models.Comment, 0, len(f.nodes)-len(seen))
	for id, c := range f.nodes {
		if !seen[id] {
			orphans = append(orphans, c.Clone())
		}
	}
	slices.SortFunc(orphans, models.CompareComments)
	return append(out, orphans...)
}

// threads materializes the reachable forest
func (f *forest) threads() []*models.Thread {
	visited := make(map[types.CommentID]bool, len(f.nodes))
	var build func(ids []types.CommentID) []*models.Thread
	build = func(ids []types.CommentID) []*models.Thread {
		var out []*models.Thread
		for _, id := range ids {
			if visited[id] {
				continue
			}
			visited[id] = true
			out = append(out, &models.Thread{
				Comment: f.nodes[id].Clone(),
				Replies: build(f.children[id]),
			})
		}
		return out
	}
	return build(f.children[types.NoParent])
}
