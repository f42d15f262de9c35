package repositories

import (
	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	ToggleSave(userID, postID uint, folder string) (saved bool, err error)
	IsPostSaved(userID, postID uint) (bool, error)
	GetSavedPostsByUser(userID uint) ([]models.SavedPost, error)
	GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// ToggleSave flips the (user, post) saved state, guarded by the unique
// pair index.
func (r *PostgresSavedPostRepository) ToggleSave(userID, postID uint, folder string) (bool, error) {
	var saved bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if folder == "" {
			folder = "General"
		}
		entry := models.SavedPost{UserID: userID, PostID: postID, Folder: folder}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = true
			return nil
		}
		saved = false
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{}).Error
	})
	return saved, err
}

func (r *PostgresSavedPostRepository) IsPostSaved(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedPostRepository) GetSavedPostsByUser(userID uint) ([]models.SavedPost, error) {
	var saved []models.SavedPost
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error
	return saved, err
}

// GetSavedPostIDs returns which of the given posts the user has saved.
func (r *PostgresSavedPostRepository) GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.SavedPost{}).
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
