package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		RecipientID uint   `json:"recipient_id"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RecipientID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("recipient_id is required"))
	}

	msg, err := s.messageService.Send(c.Context(), currentUserID(c), req.RecipientID, req.Content)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation handles GET /api/messages/:userId. Fetching a conversation
// marks the viewer's unread incoming messages as read.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	counterpartID, err := c.ParamsInt("userId")
	if err != nil || counterpartID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	messages, err := s.messageService.Conversation(c.Context(), currentUserID(c), uint(counterpartID))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(messages)
}

// GetUnreadCount handles GET /api/messages/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.messageService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"unread_count": count})
}

// GetChats handles GET /api/messages/chats
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.messageService.Chats(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(chats)
}
