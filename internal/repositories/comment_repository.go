package repositories

import (
	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID uint) ([]models.Comment, error)
	GetReplies(parentID uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
	GetCommentCountMap(postIDs []uint) (map[uint]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment. Replies to replies are flattened
// onto the top-level comment before insert.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if comment.ParentID != nil {
		var parent models.Comment
		if err := r.db.First(&parent, *comment.ParentID).Error; err != nil {
			return err
		}
		if parent.ParentID != nil {
			comment.ParentID = parent.ParentID
		}
	}
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a post, oldest first.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

// GetReplies retrieves the replies of a comment, oldest first.
func (r *PostgresCommentRepository) GetReplies(parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.Where("parent_id = ?", parentID).Order("created_at ASC, id ASC").Find(&replies).Error
	return replies, err
}

// UpdateComment persists changes to a comment
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment hard-deletes a comment with its replies, their likes, and
// any reports or notifications referencing them.
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{id}
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids = append(ids, replyIDs...)

		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reported_comment_id IN ?", ids).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_comment_id IN ?", ids).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
}

// GetCommentCountMap returns comment counts keyed by post ID.
func (r *PostgresCommentRepository) GetCommentCountMap(postIDs []uint) (map[uint]int64, error) {
	return countByColumn(r.db, &models.Comment{}, "post_id", postIDs)
}
