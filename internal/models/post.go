package models

import (
	"time"
)

const SnippetLength = 200

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	Title     string    `gorm:"not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，查询时填充
	VoteStatus  *int   `gorm:"-" json:"vote_status"`
	TextSnippet string `gorm:"-" json:"text_snippet,omitempty"`
	TextHTML    string `gorm:"-" json:"text_html,omitempty"`
}

// Snippet returns the leading part of the post text for feed listings.
func (p *Post) Snippet() string {
	if len(p.Text) > SnippetLength {
		return p.Text[:SnippetLength] + " ..."
	}
	return p.Text
}
