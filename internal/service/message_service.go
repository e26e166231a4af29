package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxMessageContentLen = 10000

// Broadcaster pushes a payload to every live connection of the listed users.
// Implemented by the notifications hub.
type Broadcaster interface {
	BroadcastUsers(userIDs []uint, message []byte)
}

// MessageEvent is the wire shape pushed to live observers on a new message.
type MessageEvent struct {
	Type    string          `json:"type"`
	Payload *models.Message `json:"payload"`
}

// MessageService provides direct-messaging business logic.
type MessageService struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	hub      Broadcaster
}

// NewMessageService returns a new MessageService. hub may be nil, in which
// case sends skip the live push.
func NewMessageService(msgRepo repository.MessageRepository, userRepo repository.UserRepository, hub Broadcaster) *MessageService {
	return &MessageService{msgRepo: msgRepo, userRepo: userRepo, hub: hub}
}

// Send stores a message to the recipient and then pushes it to the live
// connections of the two participants. The push happens after the durable
// commit, off the request path; a delivery failure never affects the sender.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageContentLen {
		return nil, models.NewValidationError("Message content too long (max 10000 characters)")
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		event := MessageEvent{Type: "new_message", Payload: msg}
		payload, err := json.Marshal(event)
		if err != nil {
			middleware.Logger.Warn("fan-out serialization failed", slog.String("error", err.Error()))
			return msg, nil
		}
		go s.hub.BroadcastUsers([]uint{senderID, recipientID}, payload)
	}

	return msg, nil
}

// Conversation returns the full history between viewer and counterpart in
// chronological order, marking the viewer's unread incoming messages as read
// before it returns.
func (s *MessageService) Conversation(ctx context.Context, viewerID, counterpartID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, counterpartID); err != nil {
		return nil, err
	}
	return s.msgRepo.GetConversation(ctx, viewerID, counterpartID)
}

// UnreadCount returns how many messages addressed to the viewer are unread.
func (s *MessageService) UnreadCount(ctx context.Context, viewerID uint) (int64, error) {
	return s.msgRepo.UnreadCount(ctx, viewerID)
}

// Chats summarizes the viewer's message history per counterpart.
func (s *MessageService) Chats(ctx context.Context, viewerID uint) ([]models.ChatSummary, error) {
	return s.msgRepo.ListChats(ctx, viewerID)
}
