package graphcache

import (
	"errors"

	"postify/internal/models"
)

// ErrNotApplied reports that a patch could not be applied consistently, e.g.
// a reply whose parent node is cached without its children loaded. It is not
// a failure: the caller falls back to invalidating and refetching the query
// instead of risking a corrupted forest.
var ErrNotApplied = errors.New("graphcache: patch not applied, invalidate and refetch")

// Effect is one mutation's cache patch. Each mutation the API exposes has
// exactly one implementation, given only the read/write surface it needs.
type Effect interface {
	// MutationName is the API mutation this effect reacts to.
	MutationName() string
	// Apply patches the cache from the mutation result. Missing cache state
	// is normal (evictions, partial query shapes) and must never corrupt
	// what is present.
	Apply(c *Cache) error
}

// VoteEffect patches the voted post's points and voteStatus from the
// client's own cached prior state, mirroring the server's transition rules
// exactly: first vote adds the value, a repeat vote is a no-op, switching
// sides applies the difference. The UI renders optimistically from this, not
// from a fresh server read.
type VoteEffect struct {
	PostID       uint
	Value        int
	IsSuccessful bool
}

func (VoteEffect) MutationName() string { return "vote" }

func (e VoteEffect) Apply(c *Cache) error {
	if !e.IsSuccessful {
		return nil
	}

	post, ok := c.ReadPost(e.PostID)
	if !ok {
		// Cache miss: the owning query will refetch naturally later.
		return nil
	}

	delta := models.VoteDelta(post.VoteStatus, e.Value)
	if delta == 0 && post.VoteStatus != nil {
		return nil
	}

	value := e.Value
	post.Points += delta
	post.VoteStatus = &value
	c.WritePost(post)

	return nil
}

// NewCommentEffect inserts a freshly created comment into the cached forest
// of its post. Siblings are ordered newest-first, so insertion is always at
// the front of the target's child list.
type NewCommentEffect struct {
	Comment CommentFragment
}

func (NewCommentEffect) MutationName() string { return "comment" }

func (e NewCommentEffect) Apply(c *Cache) error {
	detail, ok := c.ReadPostDetail(e.Comment.PostID)
	if !ok {
		// The post's detail query isn't cached; nothing to patch.
		return nil
	}

	leaf := &HComment{
		ID:             e.Comment.ID,
		Comment:        e.Comment,
		Children:       []*HComment{},
		ChildrenLoaded: true,
	}

	if e.Comment.ParentID == nil {
		detail.HComments = append([]*HComment{leaf}, detail.HComments...)
		return nil
	}

	for _, root := range detail.HComments {
		applied, err := insertReply(root, *e.Comment.ParentID, leaf)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}

	// Parent not reachable in the cached forest. It may live under a node
	// whose children were never fetched, so dropping the comment silently
	// would desync the view.
	return ErrNotApplied
}

// insertReply walks the subtree looking for the parent node. Reaching the
// parent with unloaded children aborts the patch rather than inventing an
// empty child list for a partially populated node.
func insertReply(node *HComment, parentID uint, leaf *HComment) (bool, error) {
	if node.ID == parentID {
		if !node.ChildrenLoaded {
			return false, ErrNotApplied
		}
		node.Children = append([]*HComment{leaf}, node.Children...)
		return true, nil
	}

	for _, child := range node.Children {
		applied, err := insertReply(child, parentID, leaf)
		if err != nil || applied {
			return applied, err
		}
	}

	return false, nil
}

// UpdateCommentEffect overwrites an edited comment's text in place wherever
// it sits in the cached forest. A comment not found in cache is a no-op, not
// an error.
type UpdateCommentEffect struct {
	Comment CommentFragment
}

func (UpdateCommentEffect) MutationName() string { return "updateComment" }

func (e UpdateCommentEffect) Apply(c *Cache) error {
	detail, ok := c.ReadPostDetail(e.Comment.PostID)
	if !ok {
		return nil
	}

	for _, root := range detail.HComments {
		if updateComment(root, e.Comment) {
			return nil
		}
	}

	return nil
}

func updateComment(node *HComment, updated CommentFragment) bool {
	if node.ID == updated.ID {
		node.Comment.Text = updated.Text
		node.Comment.UpdatedAt = updated.UpdatedAt
		return true
	}

	for _, child := range node.Children {
		if updateComment(child, updated) {
			return true
		}
	}

	return false
}

// DeletePostEffect invalidates the deleted post's entity so every query that
// references it drops it on the next read.
type DeletePostEffect struct {
	PostID  uint
	Deleted bool
}

func (DeletePostEffect) MutationName() string { return "deletePost" }

func (e DeletePostEffect) Apply(c *Cache) error {
	if !e.Deleted {
		return nil
	}
	c.InvalidatePost(e.PostID)
	return nil
}

// CreatePostEffect invalidates every cached feed page: a new post changes
// feed membership in ways not worth patching page by page.
type CreatePostEffect struct {
	Post PostFragment
}

func (CreatePostEffect) MutationName() string { return "createPost" }

func (e CreatePostEffect) Apply(c *Cache) error {
	c.WritePost(&e.Post)
	c.InvalidateFeed()
	return nil
}

// LoginEffect rewrites the cached current-user query from the mutation
// result and invalidates the feed, whose voteStatus fields are
// viewer-dependent. A failed login leaves the cache untouched.
type LoginEffect struct {
	User   *UserFragment
	Failed bool
}

func (LoginEffect) MutationName() string { return "login" }

func (e LoginEffect) Apply(c *Cache) error {
	if e.Failed {
		return nil
	}
	c.WriteMe(e.User)
	c.InvalidateFeed()
	return nil
}

// RegisterEffect behaves like login: registration signs the user in.
type RegisterEffect struct {
	User   *UserFragment
	Failed bool
}

func (RegisterEffect) MutationName() string { return "register" }

func (e RegisterEffect) Apply(c *Cache) error {
	if e.Failed {
		return nil
	}
	c.WriteMe(e.User)
	c.InvalidateFeed()
	return nil
}

// LogoutEffect caches an explicit "not logged in" and invalidates the feed.
type LogoutEffect struct{}

func (LogoutEffect) MutationName() string { return "logout" }

func (LogoutEffect) Apply(c *Cache) error {
	c.WriteMe(nil)
	c.InvalidateFeed()
	return nil
}
