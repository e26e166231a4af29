package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct-message data operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetConversation(ctx context.Context, viewerID, counterpartID uint) ([]*models.Message, error)
	UnreadCount(ctx context.Context, viewerID uint) (int64, error)
	ListChats(ctx context.Context, viewerID uint) ([]models.ChatSummary, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetConversation returns the full history between viewer and counterpart in
// chronological order. Messages addressed to the viewer that are still unread
// are marked read in the same transaction, so the flip is durable before the
// call returns and the returned slice already reflects it. Only the recipient
// viewing the conversation flips the flag; the sender's own fetch matches no
// rows in the update.
func (r *messageRepository) GetConversation(ctx context.Context, viewerID, counterpartID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
				viewerID, counterpartID, counterpartID, viewerID).
			Order("created_at ASC, id ASC").
			Find(&messages).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND is_read = ?", counterpartID, viewerID, false).
			Update("is_read", true).Error; err != nil {
			return models.NewInternalError(err)
		}

		for _, m := range messages {
			if m.RecipientID == viewerID {
				m.IsRead = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, viewerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", viewerID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListChats derives the distinct counterparts the viewer has exchanged at
// least one message with, annotated with the most recent message content and
// the unread count from that counterpart. Ordered by counterpart id so the
// result is deterministic for identical data.
func (r *messageRepository) ListChats(ctx context.Context, viewerID uint) ([]models.ChatSummary, error) {
	var counterpartIDs []uint
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS counterpart_id
		FROM messages
		WHERE sender_id = ? OR recipient_id = ?
		ORDER BY counterpart_id`,
		viewerID, viewerID, viewerID).
		Scan(&counterpartIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	chats := make([]models.ChatSummary, 0, len(counterpartIDs))
	for _, counterpartID := range counterpartIDs {
		if counterpartID == viewerID {
			continue
		}

		var counterpart models.User
		if err := r.db.WithContext(ctx).First(&counterpart, counterpartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, models.NewInternalError(err)
		}

		var last models.Message
		lastErr := r.db.WithContext(ctx).
			Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
				viewerID, counterpartID, counterpartID, viewerID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if lastErr != nil && !errors.Is(lastErr, gorm.ErrRecordNotFound) {
			return nil, models.NewInternalError(lastErr)
		}

		var unread int64
		if err := r.db.WithContext(ctx).Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND is_read = ?", counterpartID, viewerID, false).
			Count(&unread).Error; err != nil {
			return nil, models.NewInternalError(err)
		}

		chats = append(chats, models.ChatSummary{
			Counterpart: counterpart,
			LastMessage: last.Content,
			UnreadCount: int(unread),
		})
	}
	return chats, nil
}
