package models

import (
	"time"
)

// Post represents a piece of content owned by exactly one author. A post
// with OriginalPostID set is a retweet of that post and copies its content.
// LikeCount and RetweetCount are persisted denormalized counters; they are
// mutated only inside the like/retweet toggle transactions so they always
// equal the cardinality of the underlying rows.
type Post struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Content        string `gorm:"type:text;not null" json:"content"`
	UserID         uint   `gorm:"not null;index;uniqueIndex:idx_user_original" json:"user_id"`
	User           User   `gorm:"foreignKey:UserID" json:"user"`
	OriginalPostID *uint  `gorm:"uniqueIndex:idx_user_original" json:"original_post_id,omitempty"`
	LikeCount      int    `gorm:"not null;default:0" json:"like_count"`
	RetweetCount   int    `gorm:"not null;default:0" json:"retweet_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Retweeted indicates whether the current requesting user retweeted this post (computed)
	Retweeted bool      `gorm:"->" json:"retweeted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRetweet reports whether the post is a retweet of another post.
func (p *Post) IsRetweet() bool {
	return p.OriginalPostID != nil
}

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}

// RetweetState is the outcome of a retweet toggle.
type RetweetState struct {
	Retweeted    bool `json:"retweeted"`
	RetweetCount int  `json:"retweet_count"`
}
