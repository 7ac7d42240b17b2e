package models

import (
	"time"
)

// Vote is the join row between a user and a post. The composite primary key
// doubles as the uniqueness constraint the vote upsert relies on: the insert
// attempt is the existence check.
type Vote struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}

// VoteDelta is the change to apply to a post's points when a user moves from
// prev (nil = no earlier vote) to next. Re-voting the same value is a no-op;
// switching sides applies the difference, never the raw new value.
func VoteDelta(prev *int, next int) int {
	if prev == nil {
		return next
	}
	if *prev == next {
		return 0
	}
	return next - *prev
}
