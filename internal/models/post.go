package models

import (
	"database/sql"
	"time"
)

// Post represents a post or a reply
type Post struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID    int64         `gorm:"not null;index;column:author_id"`
	ParentID    sql.NullInt64 `gorm:"index;column:parent_id"`
	Content     string        `gorm:"type:text;not null;column:content"`
	MessageType string        `gorm:"type:varchar(16);not null;default:'post';column:message_type"`
	Active      bool          `gorm:"not null;column:active"`
	CreatedAt   time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time     `gorm:"not null;column:updated_at"`

	// Relationships
	Author   *Account `gorm:"foreignKey:AuthorID;references:ID"`
	Parent   *Post    `gorm:"foreignKey:ParentID;references:ID"`
	Children []Post   `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "pluma_posts"
}

// Message type constants
const (
	MessageTypePost  = "post"
	MessageTypeReply = "reply"
)
