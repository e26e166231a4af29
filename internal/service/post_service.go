package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxPostContentLen = 10000

// PostService provides post, like and retweet business logic.
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// Create publishes a new original post for the author.
func (s *PostService) Create(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Post content too long (max 10000 characters)")
	}

	post := &models.Post{
		Content: content,
		UserID:  authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// ToggleLike flips the caller's like on the post and returns the post with
// its refreshed count and the caller's projection.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	return s.postRepo.ToggleLike(ctx, userID, postID)
}

// ToggleRetweet flips the caller's retweet of the original post.
func (s *PostService) ToggleRetweet(ctx context.Context, userID, originalPostID uint) (*models.RetweetState, error) {
	return s.postRepo.ToggleRetweet(ctx, userID, originalPostID)
}

// List returns all posts, newest first, annotated with the viewer's
// liked/retweeted state.
func (s *PostService) List(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, viewerID)
}

// ListByUser returns the given author's posts with the viewer's projection.
func (s *PostService) ListByUser(ctx context.Context, authorID, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, authorID, viewerID)
}
