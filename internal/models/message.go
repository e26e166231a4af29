package models

import (
	"time"
)

// Message is a direct message from one user to another. IsRead starts false
// and flips to true exactly once, when the recipient views the conversation.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   *User     `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatSummary is a derived, non-persisted view of the exchanged-message
// history with one counterpart.
type ChatSummary struct {
	Counterpart User   `json:"user"`
	LastMessage string `json:"last_message"`
	UnreadCount int    `json:"unread_count"`
}
