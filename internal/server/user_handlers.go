package server

import (
	"io"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// GetMyPosts handles GET /api/users/me/posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	posts, err := s.postService.ListByUser(c.Context(), userID, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// SearchUsers handles GET /api/users/search?q=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.Search(c.Context(), c.Query("q"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(users)
}

// SuggestUsers handles GET /api/users/suggestions?limit=
func (s *Server) SuggestUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	users, err := s.userService.SuggestCounterparts(c.Context(), currentUserID(c), limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(users)
}

// UploadAvatar handles POST /api/users/me/avatar with a multipart "avatar" file.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("avatar file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("unable to read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("unable to read uploaded file"))
	}

	user, err := s.avatarService.Upload(c.Context(), currentUserID(c), content)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// DeleteAvatar handles DELETE /api/users/me/avatar
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	user, err := s.avatarService.Delete(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}
