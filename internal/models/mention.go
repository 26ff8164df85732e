package models

import (
	"time"
)

// Mention records that a post's text referenced an account by @username.
// At most one row exists per (user, post) pair.
type Mention struct {
	UserID      int64     `gorm:"primaryKey;column:user_id"`
	PostID      int64     `gorm:"primaryKey;column:post_id"`
	NotifViewed bool      `gorm:"not null;default:false;column:notif_viewed"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *Account `gorm:"foreignKey:UserID;references:ID"`
	Post *Post    `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Mention
func (Mention) TableName() string {
	return "pluma_mentions"
}
