package repositories

import (
	"time"

	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story operations. Every listing
// query filters on the expiry window; expired rows are never deleted here,
// they just stop appearing.
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveStoriesByUsers(userIDs []uint, now time.Time) ([]models.Story, error)
	MarkViewed(storyID, viewerID uint) error
	GetViewedStoryIDs(viewerID uint, storyIDs []uint) (map[uint]bool, error)
	GetViewCount(storyID uint) (int64, error)
	DeleteStory(id uint) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// CreateStory persists a story, defaulting the expiry to the standard
// 24-hour window when unset.
func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = time.Now().Add(models.StoryTTL)
	}
	return r.db.Create(story).Error
}

// GetStoryByID retrieves a story by ID, expired or not. Visibility
// filtering belongs to the listing paths.
func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveStoriesByUsers retrieves unexpired stories from the given
// authors, newest first.
func (r *PostgresStoryRepository) GetActiveStoriesByUsers(userIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if len(userIDs) == 0 {
		return stories, nil
	}
	err := r.db.Where("user_id IN ? AND expires_at > ?", userIDs, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// MarkViewed records a view, once per (story, viewer).
func (r *PostgresStoryRepository) MarkViewed(storyID, viewerID uint) error {
	view := models.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&view).Error
}

// GetViewedStoryIDs returns which of the given stories the viewer has seen.
func (r *PostgresStoryRepository) GetViewedStoryIDs(viewerID uint, storyIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(storyIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.StoryView{}).
		Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GetViewCount counts the viewers of a story.
func (r *PostgresStoryRepository) GetViewCount(storyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.StoryView{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, err
}

// DeleteStory removes a story and its views.
func (r *PostgresStoryRepository) DeleteStory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Story{}, id).Error
	})
}
