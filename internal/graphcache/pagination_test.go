package graphcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPost(c *Cache, id uint, createdAt time.Time) {
	c.WritePost(&PostFragment{ID: id, Title: "post", CreatedAt: createdAt})
}

func TestReadFeedMergesPagesInFetchOrder(t *testing.T) {
	c := NewCache()
	now := time.Now()

	feedPost(c, 1, now)
	feedPost(c, 2, now.Add(-1*time.Minute))
	feedPost(c, 3, now.Add(-2*time.Minute))
	feedPost(c, 4, now.Add(-3*time.Minute))

	first := FeedVariables{Limit: 2}
	second := FeedVariables{Limit: 2, Cursor: now.Add(-1 * time.Minute)}

	c.WriteFeedPage(first, &FeedPage{PostIDs: []uint{1, 2}, HasMore: true})
	c.WriteFeedPage(second, &FeedPage{PostIDs: []uint{3, 4}, HasMore: true})

	merged := c.ReadFeed(second)

	require.Len(t, merged.Posts, 4)
	for i, want := range []uint{1, 2, 3, 4} {
		assert.Equal(t, want, merged.Posts[i].ID)
	}
	assert.True(t, merged.HasMore)
	assert.False(t, merged.Partial)
}

func TestReadFeedHasMoreIsANDOfAllPages(t *testing.T) {
	c := NewCache()
	now := time.Now()

	feedPost(c, 1, now)
	feedPost(c, 2, now.Add(-1*time.Minute))

	first := FeedVariables{Limit: 1}
	second := FeedVariables{Limit: 1, Cursor: now}

	c.WriteFeedPage(first, &FeedPage{PostIDs: []uint{1}, HasMore: true})
	c.WriteFeedPage(second, &FeedPage{PostIDs: []uint{2}, HasMore: false})

	merged := c.ReadFeed(second)
	assert.False(t, merged.HasMore)
}

func TestReadFeedUnknownVariantIsPartial(t *testing.T) {
	c := NewCache()
	now := time.Now()

	feedPost(c, 1, now)
	first := FeedVariables{Limit: 10}
	c.WriteFeedPage(first, &FeedPage{PostIDs: []uint{1}, HasMore: true})

	// A "load more" request whose page hasn't arrived yet still renders the
	// known pages but flags the result so the client fetches.
	next := FeedVariables{Limit: 10, Cursor: now}
	merged := c.ReadFeed(next)

	require.Len(t, merged.Posts, 1)
	assert.True(t, merged.Partial)
}

func TestReadFeedEmptyCacheIsPartial(t *testing.T) {
	c := NewCache()

	merged := c.ReadFeed(FeedVariables{Limit: 10})
	assert.True(t, merged.Partial)
	assert.Empty(t, merged.Posts)
}

func TestReadFeedSkipsInvalidatedEntities(t *testing.T) {
	c := NewCache()
	now := time.Now()

	feedPost(c, 1, now)
	feedPost(c, 2, now.Add(-1*time.Minute))
	vars := FeedVariables{Limit: 10}
	c.WriteFeedPage(vars, &FeedPage{PostIDs: []uint{1, 2}, HasMore: false})

	c.InvalidatePost(1)

	merged := c.ReadFeed(vars)
	require.Len(t, merged.Posts, 1)
	assert.Equal(t, uint(2), merged.Posts[0].ID)
	assert.True(t, merged.Partial)
}

func TestWriteFeedPageRefetchOverwritesInPlace(t *testing.T) {
	c := NewCache()
	now := time.Now()

	feedPost(c, 1, now)
	feedPost(c, 2, now.Add(-1*time.Minute))
	feedPost(c, 3, now.Add(-2*time.Minute))

	first := FeedVariables{Limit: 2}
	second := FeedVariables{Limit: 2, Cursor: now.Add(-1 * time.Minute)}
	c.WriteFeedPage(first, &FeedPage{PostIDs: []uint{1, 2}, HasMore: true})
	c.WriteFeedPage(second, &FeedPage{PostIDs: []uint{3}, HasMore: false})

	// Refetching page one must not move it behind page two.
	c.WriteFeedPage(first, &FeedPage{PostIDs: []uint{1, 2}, HasMore: true})

	merged := c.ReadFeed(second)
	require.Len(t, merged.Posts, 3)
	assert.Equal(t, uint(1), merged.Posts[0].ID)
	assert.Equal(t, uint(3), merged.Posts[2].ID)
}
