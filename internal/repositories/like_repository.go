package repositories

import (
	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for post and comment like operations.
// Both toggles are single conditional insert-or-delete statements guarded
// by their unique pair index, so concurrent duplicate requests converge
// instead of double-flipping.
type LikeRepository interface {
	ToggleLike(userID, postID uint) (liked bool, count int64, err error)
	GetLikesCountByPostID(postID uint) (int64, error)
	HasUserLikedPost(userID, postID uint) (bool, error)
	GetLikeCountMap(postIDs []uint) (map[uint]int64, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
	ToggleCommentLike(userID, commentID uint) (liked bool, count int64, err error)
	GetCommentLikeCountMap(commentIDs []uint) (map[uint]int64, error)
	GetLikedCommentIDs(userID uint, commentIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike flips the (user, post) like state and returns the new state
// with the post's total like count.
func (r *PostgresLikeRepository) ToggleLike(userID, postID uint) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
		} else {
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			liked = false
		}
		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	return liked, count, err
}

// GetLikesCountByPostID retrieves the count of likes for a specific post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikeCountMap returns like counts keyed by post ID.
func (r *PostgresLikeRepository) GetLikeCountMap(postIDs []uint) (map[uint]int64, error) {
	return countByColumn(r.db, &models.Like{}, "post_id", postIDs)
}

// GetLikedPostIDs returns which of the given posts the user has liked.
func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ToggleCommentLike flips the (user, comment) like state and returns the
// new state with the comment's total like count.
func (r *PostgresLikeRepository) ToggleCommentLike(userID, commentID uint) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		like := models.CommentLike{UserID: userID, CommentID: commentID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
		} else {
			if err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			liked = false
		}
		return tx.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	})
	return liked, count, err
}

// GetCommentLikeCountMap returns like counts keyed by comment ID.
func (r *PostgresLikeRepository) GetCommentLikeCountMap(commentIDs []uint) (map[uint]int64, error) {
	return countByColumn(r.db, &models.CommentLike{}, "comment_id", commentIDs)
}

// GetLikedCommentIDs returns which of the given comments the user has liked.
func (r *PostgresLikeRepository) GetLikedCommentIDs(userID uint, commentIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(commentIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
