package graphcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultEntityCap bounds the normalized entity store. Eviction is safe: a
// handler finding a fragment missing simply does not patch it, and the owning
// query refetches on its next read.
const defaultEntityCap = 512

// Cache holds normalized entities plus the results of the three dependent
// queries (current user, post detail, paginated feed). It is explicitly
// constructed and passed down; there is no package-level instance. The client
// event loop is the only writer, so no locking is needed.
type Cache struct {
	posts *lru.Cache[string, *PostFragment]

	// Query: me
	me    *UserFragment
	hasMe bool

	// Query: post(id), including the hcomments forest
	details map[uint]*PostDetail

	// Query: posts(limit, cursor), one entry per distinct variable set,
	// with the order pages were fetched in
	feedPages map[FeedVariables]*FeedPage
	feedOrder []FeedVariables
}

// PostDetail is the cached result of the single-post query: the post entity
// reference plus its materialized comment forest.
type PostDetail struct {
	PostID   uint
	HComments []*HComment
}

func NewCache() *Cache {
	posts, err := lru.New[string, *PostFragment](defaultEntityCap)
	if err != nil {
		// Only reachable with a non-positive capacity.
		panic(err)
	}

	return &Cache{
		posts:     posts,
		details:   make(map[uint]*PostDetail),
		feedPages: make(map[FeedVariables]*FeedPage),
	}
}

// WritePost stores or overwrites a post fragment under its normalized key.
func (c *Cache) WritePost(f *PostFragment) {
	c.posts.Add(Key("Post", f.ID), f)
}

// ReadPost returns the cached fragment for a post id, if present.
func (c *Cache) ReadPost(id uint) (*PostFragment, bool) {
	return c.posts.Get(Key("Post", id))
}

// InvalidatePost drops the post entity and its detail query result, forcing
// dependent queries to refetch it.
func (c *Cache) InvalidatePost(id uint) {
	c.posts.Remove(Key("Post", id))
	delete(c.details, id)
}

// WriteMe overwrites the cached current-user query result. A nil user is a
// cached "not logged in", distinct from the query never having run.
func (c *Cache) WriteMe(user *UserFragment) {
	c.me = user
	c.hasMe = true
}

// ReadMe returns the cached current user. The second result reports whether
// the query result is cached at all.
func (c *Cache) ReadMe() (*UserFragment, bool) {
	return c.me, c.hasMe
}

// WritePostDetail stores the post-detail query result for one post.
func (c *Cache) WritePostDetail(detail *PostDetail) {
	c.details[detail.PostID] = detail
}

// ReadPostDetail returns the cached detail query result for a post.
func (c *Cache) ReadPostDetail(postID uint) (*PostDetail, bool) {
	d, ok := c.details[postID]
	return d, ok
}

// Apply runs a mutation effect against the cache. ErrNotApplied means the
// cache could not be patched consistently and the caller should fall back to
// invalidating and refetching the affected query.
func (c *Cache) Apply(e Effect) error {
	return e.Apply(c)
}
