package graphcache

import (
	"time"
)

// FeedVariables identifies one fetched page of the posts query. Cursor is the
// createdAt boundary of the page (zero time = first page).
type FeedVariables struct {
	Limit  int
	Cursor time.Time
}

// FeedPage is one cached page: references into the normalized post entities
// plus the server's hasMore flag for that page.
type FeedPage struct {
	PostIDs []uint
	HasMore bool
}

// MergedFeed is what the feed view renders: every cached page concatenated in
// fetch order. Partial means the merged result cannot satisfy the requested
// variables from cache alone and a network fetch is needed.
type MergedFeed struct {
	Posts   []*PostFragment
	HasMore bool
	Partial bool
}

// WriteFeedPage stores one fetched page. First write of a variable set
// appends to the fetch order; re-fetching an already-known page overwrites in
// place so "load more" sequences stay stable.
func (c *Cache) WriteFeedPage(vars FeedVariables, page *FeedPage) {
	if _, seen := c.feedPages[vars]; !seen {
		c.feedOrder = append(c.feedOrder, vars)
	}
	c.feedPages[vars] = page
}

// ReadFeed merges every cached page of the posts query: page post lists are
// concatenated in the order the pages were fetched and hasMore is the AND of
// every page's flag. The result is partial when the exact requested variable
// set has not itself been cached yet, or when a referenced post entity has
// been invalidated out from under a page.
func (c *Cache) ReadFeed(requested FeedVariables) MergedFeed {
	merged := MergedFeed{HasMore: true}

	if len(c.feedOrder) == 0 {
		return MergedFeed{Partial: true}
	}

	for _, vars := range c.feedOrder {
		page := c.feedPages[vars]
		for _, id := range page.PostIDs {
			post, ok := c.ReadPost(id)
			if !ok {
				// Entity evicted or invalidated; the list can still
				// render but must be refreshed.
				merged.Partial = true
				continue
			}
			merged.Posts = append(merged.Posts, post)
		}
		merged.HasMore = merged.HasMore && page.HasMore
	}

	if _, ok := c.feedPages[requested]; !ok {
		merged.Partial = true
	}

	return merged
}

// InvalidateFeed drops every cached page of the posts query, all variable
// combinations. Feed membership and order can change in ways too complex to
// patch incrementally (new posts, identity changes), so the whole query
// refetches.
func (c *Cache) InvalidateFeed() {
	c.feedPages = make(map[FeedVariables]*FeedPage)
	c.feedOrder = nil
}
