// Package loader batches and memoizes related-entity lookups within a single
// request, so filling creators and vote statuses across a feed page costs one
// round-trip per distinct id set instead of one per row. Loaders are
// request-scoped; nothing here caches across requests.
package loader

import (
	"gorm.io/gorm"

	"postify/internal/models"
)

// batch coalesces keyed lookups over a single fetch function. Keys already
// resolved in this request are served from the memo; the rest go to the
// store in one call. Missing keys are memoized as absent so a second pass
// does not re-query them.
type batch[K comparable, V any] struct {
	fetch func(keys []K) (map[K]V, error)
	memo  map[K]V
	seen  map[K]bool
}

func newBatch[K comparable, V any](fetch func(keys []K) (map[K]V, error)) *batch[K, V] {
	return &batch[K, V]{
		fetch: fetch,
		memo:  make(map[K]V),
		seen:  make(map[K]bool),
	}
}

func (b *batch[K, V]) loadMany(keys []K) (map[K]V, error) {
	var missing []K
	requested := make(map[K]bool)
	for _, k := range keys {
		if requested[k] {
			continue
		}
		requested[k] = true
		if !b.seen[k] {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		fetched, err := b.fetch(missing)
		if err != nil {
			return nil, err
		}
		for _, k := range missing {
			b.seen[k] = true
			if v, ok := fetched[k]; ok {
				b.memo[k] = v
			}
		}
	}

	out := make(map[K]V, len(requested))
	for k := range requested {
		if v, ok := b.memo[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// UserLoader resolves users by id, one IN query per distinct id set.
type UserLoader struct {
	b *batch[uint, models.User]
}

func NewUserLoader(db *gorm.DB) *UserLoader {
	return &UserLoader{
		b: newBatch(func(ids []uint) (map[uint]models.User, error) {
			var users []models.User
			if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
				return nil, err
			}
			out := make(map[uint]models.User, len(users))
			for _, u := range users {
				out[u.ID] = u
			}
			return out, nil
		}),
	}
}

func (l *UserLoader) LoadMany(ids []uint) (map[uint]models.User, error) {
	return l.b.loadMany(ids)
}

func (l *UserLoader) Load(id uint) (*models.User, error) {
	users, err := l.b.loadMany([]uint{id})
	if err != nil {
		return nil, err
	}
	if u, ok := users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// VoteStatusLoader resolves the requesting user's vote value per post. Posts
// the user never voted on resolve to nil.
type VoteStatusLoader struct {
	b *batch[uint, int]
}

func NewVoteStatusLoader(db *gorm.DB, userID uint) *VoteStatusLoader {
	return &VoteStatusLoader{
		b: newBatch(func(postIDs []uint) (map[uint]int, error) {
			var votes []models.Vote
			if err := db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&votes).Error; err != nil {
				return nil, err
			}
			out := make(map[uint]int, len(votes))
			for _, v := range votes {
				out[v.PostID] = v.Value
			}
			return out, nil
		}),
	}
}

// LoadMany returns vote values keyed by post id; absent key = no vote.
func (l *VoteStatusLoader) LoadMany(postIDs []uint) (map[uint]int, error) {
	return l.b.loadMany(postIDs)
}
