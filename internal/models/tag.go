package models

import (
	"time"
)

// Tag is a canonical lowercase hashtag token, shared across posts.
// Uniqueness is keyed by the text itself.
type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Text      string    `gorm:"type:varchar(64);not null;uniqueIndex:pluma_tags_ux1;column:text"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "pluma_tags"
}

// PostTag represents a post-to-tag mapping
type PostTag struct {
	PostID int64 `gorm:"primaryKey;column:post_id"`
	TagID  int64 `gorm:"primaryKey;column:tag_id"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "pluma_post_tags"
}
