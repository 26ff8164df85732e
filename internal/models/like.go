package models

import (
	"time"
)

// Like records a user liking a post. One row per (user, post) pair;
// unlike flips Active off and a re-like flips it back on with a fresh
// CreatedAt rather than inserting a second row.
type Like struct {
	UserID      int64     `gorm:"primaryKey;column:user_id"`
	PostID      int64     `gorm:"primaryKey;column:post_id"`
	Active      bool      `gorm:"not null;column:active"`
	NotifViewed bool      `gorm:"not null;default:false;column:notif_viewed"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *Account `gorm:"foreignKey:UserID;references:ID"`
	Post *Post    `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "pluma_likes"
}
