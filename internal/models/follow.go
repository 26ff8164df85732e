package models

import (
	"time"
)

// Follow represents a directed follow edge between two accounts.
// At most one row exists per (follower, account) pair; a removed edge
// is an absent row, not a stored state.
type Follow struct {
	FollowerID  int64     `gorm:"primaryKey;column:follower_id"`
	AccountID   int64     `gorm:"primaryKey;column:account_id"`
	Pending     bool      `gorm:"not null;default:false;column:pending"`
	Active      bool      `gorm:"not null;column:active"`
	NotifViewed bool      `gorm:"not null;default:false;column:notif_viewed"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Follower *Account `gorm:"foreignKey:FollowerID;references:ID"`
	Account  *Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "pluma_follows"
}

// FollowStatus describes the viewer's relation to a target account.
type FollowStatus string

const (
	StatusSelf         FollowStatus = "self"
	StatusFollowing    FollowStatus = "following"
	StatusPending      FollowStatus = "pending"
	StatusNotFollowing FollowStatus = "not_following"
)
