// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. Username and email are unique;
// identity fields are immutable after registration except the avatar.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex:idx_users_username;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
