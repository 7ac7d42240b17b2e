// Package hcomment materializes the flat, self-referencing comment rows of a
// post into a forest of reply trees. The forest is rebuilt fresh on every
// read and never persisted.
package hcomment

import (
	"errors"

	"postify/internal/models"
)

const (
	// MaxDepth is the hard server-side nesting limit. Comments deeper than
	// this are rejected at creation time, not stored.
	MaxDepth = 30

	// MaxReplyDepth is where the UI stops offering a reply affordance.
	// Deliberately lower than MaxDepth; see DESIGN.md.
	MaxReplyDepth = 20
)

// ErrDepthExceeded signals a reply that would nest past MaxDepth.
var ErrDepthExceeded = errors.New("comment depth exceeded")

// HierarchicalComment is the tree-node projection of a comment plus its
// nested replies. Children keep the order of the input slice, so a caller
// supplying rows newest-first gets newest-first siblings at every level.
type HierarchicalComment struct {
	ID       uint                   `json:"id"`
	Comment  models.Comment         `json:"comment"`
	Children []*HierarchicalComment `json:"children"`
}

// BuildForest arranges all comments of one post into reply trees, one per
// top-level comment. Each input comment is attached to at most one position:
// under its parent if the parent is present in the input, as a root if it has
// no parent. A comment whose parent id points outside the input (wrong post,
// deleted row) is unreachable and silently left out rather than erroring.
//
// The build is a single pass over an id -> children index, so the output is
// deterministic and linear in the number of comments.
func BuildForest(comments []models.Comment) []*HierarchicalComment {
	// Index children by parent id, preserving input order among siblings.
	byParent := make(map[uint][]models.Comment)
	for _, c := range comments {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	forest := []*HierarchicalComment{}
	for _, c := range comments {
		if c.ParentID == nil {
			forest = append(forest, buildTree(c, byParent))
		}
	}

	return forest
}

// buildTree attaches the comment's children recursively from the index.
func buildTree(comment models.Comment, byParent map[uint][]models.Comment) *HierarchicalComment {
	node := &HierarchicalComment{
		ID:       comment.ID,
		Comment:  comment,
		Children: []*HierarchicalComment{},
	}

	for _, child := range byParent[comment.ID] {
		node.Children = append(node.Children, buildTree(child, byParent))
	}

	return node
}

// ChildDepth computes the depth for a new comment under parent (nil for a
// top-level comment). Depth is never client-supplied.
func ChildDepth(parent *models.Comment) (int, error) {
	if parent == nil {
		return 0, nil
	}

	depth := parent.Depth + 1
	if depth > MaxDepth {
		return 0, ErrDepthExceeded
	}

	return depth, nil
}
