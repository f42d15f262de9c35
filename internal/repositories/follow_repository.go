package repositories

import (
	"math/rand"

	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// suggestionScanLimit bounds the candidate scan for user suggestions so the
// random pick never degenerates into a full-table sort.
const suggestionScanLimit = 200

// FollowRepository defines the interface for social graph operations
type FollowRepository interface {
	Follow(followerID, followingID uint) (created bool, err error)
	Unfollow(followerID, followingID uint) (removed bool, err error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint) ([]models.User, error)
	GetFollowing(userID uint) ([]models.User, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	SuggestCandidateIDs(userID uint) ([]uint, error)
	SampleSuggestions(candidates []uint, n int) []uint
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow creates the edge unless it already exists. The insert is guarded
// by the unique (follower, following) index so concurrent duplicate
// requests converge to a single row; created reports whether this call
// inserted it.
func (r *PostgresFollowRepository) Follow(followerID, followingID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge if present. Removing a missing edge is a no-op,
// not an error.
func (r *PostgresFollowRepository) Unfollow(followerID, followingID uint) (bool, error) {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Profile").Where("id IN (?)",
		r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Profile").Where("id IN (?)",
		r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

// SuggestCandidateIDs returns a bounded set of users the given user does
// not follow and has no block relationship with. The scan is capped at
// suggestionScanLimit recent users; SampleSuggestions picks from it.
func (r *PostgresFollowRepository) SuggestCandidateIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)).
		Where("id NOT IN (?)", r.db.Table("blocks").Select("blocked_id").Where("blocker_id = ?", userID)).
		Where("id NOT IN (?)", r.db.Table("blocks").Select("blocker_id").Where("blocked_id = ?", userID)).
		Order("id DESC").
		Limit(suggestionScanLimit).
		Pluck("id", &ids).Error
	return ids, err
}

// SampleSuggestions shuffles the candidate set and returns up to n IDs.
func (r *PostgresFollowRepository) SampleSuggestions(candidates []uint, n int) []uint {
	if len(candidates) == 0 || n <= 0 {
		return nil
	}
	shuffled := make([]uint, len(candidates))
	copy(shuffled, candidates)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
