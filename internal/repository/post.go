package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, currentUserID uint) ([]*models.Post, error)
	ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error)
	ToggleRetweet(ctx context.Context, userID, originalPostID uint) (*models.RetweetState, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds subqueries to fetch the viewer's liked/retweeted state
// in a single query. These are per-viewer projections, not post properties.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("posts.*, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked, "+
			"EXISTS(SELECT 1 FROM posts rt WHERE rt.original_post_id = posts.id AND rt.user_id = ?) AS retweeted",
			currentUserID, currentUserID)
	}
	return db.Select("posts.*, false AS liked, false AS retweeted")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ToggleLike flips the like state of (userID, postID) and refreshes the
// post's like_count from the live set of like rows, all in one transaction.
// A concurrent duplicate insert is absorbed by the unique constraint: the
// insert affects zero rows and the call proceeds as an unlike.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		like := models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Already liked: toggle off.
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Like{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		// like_count always equals the cardinality of the like set.
		var count int64
		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", count).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, postID)

	// Re-read with the viewer projection so liked reflects the committed state.
	return r.GetByID(ctx, postID, userID)
}

// ToggleRetweet flips the retweet state of (userID, originalPostID). Creating
// a retweet inserts a post row copying the original's content; removing one
// deletes that row. The original's retweet_count moves in lockstep and never
// goes negative.
func (r *postRepository) ToggleRetweet(ctx context.Context, userID, originalPostID uint) (*models.RetweetState, error) {
	state := &models.RetweetState{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Post
		if err := tx.First(&original, originalPostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", originalPostID)
			}
			return models.NewInternalError(err)
		}

		var existing models.Post
		findErr := tx.Where("user_id = ? AND original_post_id = ?", userID, originalPostID).
			First(&existing).Error
		switch {
		case findErr == nil:
			// Toggle off: remove the retweet row and decrement.
			if err := tx.Delete(&models.Post{}, existing.ID).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Model(&models.Post{}).
				Where("id = ? AND retweet_count > 0", originalPostID).
				UpdateColumn("retweet_count", gorm.Expr("retweet_count - 1")).Error; err != nil {
				return models.NewInternalError(err)
			}
			state.Retweeted = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			retweet := models.Post{
				Content:        original.Content,
				UserID:         userID,
				OriginalPostID: &originalPostID,
			}
			if err := tx.Create(&retweet).Error; err != nil {
				if isUniqueConstraintError(err) {
					// A concurrent request created the retweet first;
					// the state already reflects the desired toggle.
					state.Retweeted = true
					return nil
				}
				return models.NewInternalError(err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", originalPostID).
				UpdateColumn("retweet_count", gorm.Expr("retweet_count + 1")).Error; err != nil {
				return models.NewInternalError(err)
			}
			state.Retweeted = true
		default:
			return models.NewInternalError(findErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, originalPostID)

	var count int
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", originalPostID).
		Pluck("retweet_count", &count).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	state.RetweetCount = count
	return state, nil
}
