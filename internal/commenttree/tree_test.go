package commenttree

import (
	"slices"
	"testing"

	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
)

func TestBuildTree_TopLevel(t *testing.T) {
	flat := []models.Comment{
		comment("c1a", "c1", at(9, 10)),
		comment("c2", "", at(10, 0)),
		comment("c1", "", at(9, 0)),
		comment("c1a1", "c1a", at(9, 20)),
		comment("c1b", "c1", at(9, 5)),
	}

	threads := BuildTree(flat, types.NoParent)
	if got := threadIDs(threads); !slices.Equal(got, []types.CommentID{"c1", "c2"}) {
		t.Fatalf("roots = %v, want [c1 c2]", got)
	}
	if got := threadIDs(threads[0].Replies); !slices.Equal(got, []types.CommentID{"c1b", "c1a"}) {
		t.Errorf("c1 replies = %v, want [c1b c1a]", got)
	}
	if got := threadIDs(threads[0].Replies[1].Replies); !slices.Equal(got, []types.CommentID{"c1a1"}) {
		t.Errorf("c1a replies = %v, want [c1a1]", got)
	}
}

func TestBuildTree_FromInnerParent(t *testing.T) {
	flat := []models.Comment{
		comment("c1", "", at(9, 0)),
		comment("c1a", "c1", at(9, 10)),
		comment("c1a1", "c1a", at(9, 20)),
		comment("c2", "", at(10, 0)),
	}

	threads := BuildTree(flat, "c1")
	if got := threadIDs(threads); !slices.Equal(got, []types.CommentID{"c1a"}) {
		t.Errorf("BuildTree(c1) = %v, want [c1a]", got)
	}
	if len(BuildTree(flat, "c2")) != 0 {
		t.Error("leaf should have no reply tree")
	}
	if BuildTree(nil, types.NoParent) != nil {
		t.Error("empty input should build nothing")
	}
}

func TestBuildTree_ExcludesOrphansAndCutsCycles(t *testing.T) {
	flat := []models.Comment{
		comment("root", "", at(9, 0)),
		comment("orphan", "gone", at(9, 1)),
		comment("x", "y", at(9, 2)),
		comment("y", "x", at(9, 3)),
		comment("root", "", at(11, 0)), // duplicate: first occurrence wins
	}

	threads := BuildTree(flat, types.NoParent)
	if got := threadIDs(threads); !slices.Equal(got, []types.CommentID{"root"}) {
		t.Fatalf("roots = %v, want [root]", got)
	}
	if !threads[0].CreatedAt.Equal(at(9, 0)) {
		t.Errorf("duplicate id should keep the first occurrence")
	}

	// Rooted inside a cycle, x is visited once
	cyc := BuildTree(flat, "x")
	if got := len(Flatten(cyc)); got != 1 {
		t.Errorf("cycle produced %d rows, want 1", got)
	}
}

func TestBuildTree_DoesNotModifyInput(t *testing.T) {
	flat := []models.Comment{
		comment("b", "", at(10, 0)),
		comment("a", "", at(9, 0)),
	}
	BuildTree(flat, types.NoParent)
	if flat[0].ID != "b" {
		t.Error("BuildTree reordered its input")
	}
}

func TestFlatten_Depths(t *testing.T) {
	s := sampleForest(t)
	rows := Flatten(s.Forest(task))

	want := []struct {
		id    types.CommentID
		depth int
	}{
		{"c1", 0},
		{"c1a", 1},
		{"c1a1", 2},
		{"c1b", 1},
		{"c2", 0},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Comment.ID != w.id || rows[i].Depth != w.depth {
			t.Errorf("row %d = %s@%d, want %s@%d", i, rows[i].Comment.ID, rows[i].Depth, w.id, w.depth)
		}
	}
}

func TestFind(t *testing.T) {
	forest := sampleForest(t).Forest(task)
	if got := Find(forest, "c1a1"); got == nil || got.ID != "c1a1" {
		t.Errorf("Find(c1a1) = %v", got)
	}
	if Find(forest, "ghost") != nil {
		t.Error("Find(ghost) should be nil")
	}
}
