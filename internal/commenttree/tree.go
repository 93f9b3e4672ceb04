package commenttree

import (
	"slices"

	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

// BuildTree returns the ordered reply trees hanging under parentID
// (types.NoParent for the top level) from a flat comment list.
// Siblings are ordered ascending by CreatedAt, ties by ID. Duplicate ids keep
// the first occurrence and cycles are cut, so every id is materialized at
// most once. The input is not modified.
func BuildTree(flat []models.Comment, parentID types.CommentID) []*models.Thread {
	if len(flat) == 0 {
		return nil
	}

	children := make(map[types.CommentID][]models.Comment)
	seen := make(map[types.CommentID]bool, len(flat))
	for _, c := range flat {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	for parent := range children {
		slices.SortFunc(children[parent], models.CompareComments)
	}

	visited := map[types.CommentID]bool{parentID: !parentID.IsRoot()}
	var build func(parent types.CommentID) []*models.Thread
	build = func(parent types.CommentID) []*models.Thread {
		var out []*models.Thread
		for _, c := range children[parent] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			out = append(out, &models.Thread{
				Comment: c.Clone(),
				Replies: build(c.ID),
			})
		}
		return out
	}
	return build(parentID)
}

// Row is one line of a flattened thread
type Row struct {
	Comment models.Comment
	Depth   int
}

// Flatten walks threads depth-first (each comment followed by its replies)
// and records the nesting depth of every comment, starting at 0.
func Flatten(threads []*models.Thread) []Row {
	var out []Row
	var walk func(ts []*models.Thread, depth int)
	walk = func(ts []*models.Thread, depth int) {
		for _, t := range ts {
			out = append(out, Row{Comment: t.Comment, Depth: depth})
			walk(t.Replies, depth+1)
		}
	}
	walk(threads, 0)
	return out
}

// Find returns the thread rooted at id, or nil
func Find(threads []*models.Thread, id types.CommentID) *models.Thread {
	for _, t := range threads {
		if t.ID == id {
			return t
		}
		if found := Find(t.Replies, id); found != nil {
			return found
		}
	}
	return nil
}
