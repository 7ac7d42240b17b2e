// Package graphcache is the client-side normalized result cache. Mutation
// responses are applied to it as typed effects that patch the affected
// fragments in place, so dependent queries re-render without a refetch.
// Response wrappers (UserResponse, VoteResponse, PostsResponse) carry no
// stable id and are never cached as entities; what gets rewritten is the
// parent query result that embeds them.
package graphcache

import (
	"fmt"
	"time"
)

// UserFragment is the cached shape of a user as queries read it.
type UserFragment struct {
	ID       uint
	Username string
	Email    string
}

// PostFragment is the cached shape of a post in the feed and detail queries.
// VoteStatus is the viewer's own vote (+1, -1, nil = none), distinct from the
// aggregate Points.
type PostFragment struct {
	ID          uint
	Title       string
	TextSnippet string
	Points      int
	VoteStatus  *int
	CreatorID   uint
	CreatedAt   time.Time
}

// CommentFragment is the cached shape of one comment row.
type CommentFragment struct {
	ID        uint
	PostID    uint
	ParentID  *uint
	UserID    uint
	Username  string
	Text      string
	Depth     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HComment is the cached reply-tree node for a post's comment forest.
// ChildrenLoaded distinguishes "no replies" from "replies never fetched":
// partial query shapes can populate a node without its children, and a patch
// must not treat that as an empty list.
type HComment struct {
	ID             uint
	Comment        CommentFragment
	Children       []*HComment
	ChildrenLoaded bool
}

// Key is the normalized cache key for an entity, "Typename:id".
func Key(typename string, id uint) string {
	return fmt.Sprintf("%s:%d", typename, id)
}
