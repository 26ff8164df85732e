package models

import (
	"database/sql"
	"time"
)

// Account represents a user account
type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(32);not null;uniqueIndex:pluma_accounts_ux1;column:username"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Profile fields
	DisplayName sql.NullString `gorm:"type:varchar(64);column:display_name"`
	Bio         sql.NullString `gorm:"type:varchar(250);column:bio"`
	AvatarURL   string         `gorm:"type:varchar(1024);not null;default:'';column:avatar_url"`

	// Visibility: accounts are deactivated, never deleted. No column
	// default on Active: a default would make GORM skip the field on
	// insert when it is false, silently storing the account as active.
	// Callers always set it explicitly.
	Active  bool `gorm:"not null;column:active"`
	Private bool `gorm:"not null;default:false;column:private"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "pluma_accounts"
}
