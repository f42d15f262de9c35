package repositories

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByAuthor(authorID, viewerID uint, beforeTime time.Time, beforeID uint, limit int) ([]models.Post, error)
	GetFeedPosts(viewerID uint, authorIDs []uint, beforeTime time.Time, beforeID uint, limit int) ([]models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	ToggleRepost(userID, postID uint, quoteText string) (reposted bool, count int64, err error)
	GetRepostCountMap(postIDs []uint) (map[uint]int64, error)
	CreateShare(share *models.Share) error
	GetShareCountMap(postIDs []uint) (map[uint]int64, error)
	VotePoll(userID, postID uint, optionIndex int, multipleChoice bool) error
	GetPollResults(postID uint, userID uint) (map[int]int64, []int, error)
	GetPostsByHashtag(tag string, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost persists a post and links the hashtags found in its content.
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return syncHashtags(tx, post)
	})
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// keyset applies cursor pagination on (created_at, id) descending. A zero
// beforeID means the first page.
func keyset(q *gorm.DB, beforeTime time.Time, beforeID uint) *gorm.DB {
	if beforeID > 0 {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", beforeTime, beforeTime, beforeID)
	}
	return q.Order("created_at DESC, id DESC")
}

// GetPostsByAuthor retrieves one author's posts, newest first. Private
// posts are only returned to the author themself.
func (r *PostgresPostRepository) GetPostsByAuthor(authorID, viewerID uint, beforeTime time.Time, beforeID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Where("author_id = ?", authorID)
	if authorID != viewerID {
		q = q.Where("is_public = ?", true)
	}
	err := keyset(q, beforeTime, beforeID).Limit(limit).Find(&posts).Error
	return posts, err
}

// GetFeedPosts retrieves the feed window for a viewer: posts authored by
// anyone in authorIDs (the viewer's following set plus the viewer), newest
// first, keyset-paginated. Other authors' private posts are excluded.
func (r *PostgresPostRepository) GetFeedPosts(viewerID uint, authorIDs []uint, beforeTime time.Time, beforeID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	q := r.db.Where("author_id IN ?", authorIDs).
		Where("is_public = ? OR author_id = ?", true, viewerID)
	err := keyset(q, beforeTime, beforeID).Limit(limit).Find(&posts).Error
	return posts, err
}

// UpdatePost persists changes to a post and refreshes its hashtag links.
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		if err := unlinkHashtags(tx, []uint{post.ID}); err != nil {
			return err
		}
		return syncHashtags(tx, post)
	})
}

// DeletePost hard-deletes a post and everything owned by it: likes,
// comments and their likes, saved entries, shares, poll votes, reports,
// notifications targeting it, and any reposts of it (with their own
// dependents).
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{id}
		var repostIDs []uint
		if err := tx.Model(&models.Post{}).Where("repost_parent_id = ?", id).Pluck("id", &repostIDs).Error; err != nil {
			return err
		}
		ids = append(ids, repostIDs...)

		commentIDs := tx.Table("comments").Select("id").Where("post_id IN ?", ids)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_comment_id IN (?)", commentIDs).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Comment{}, &models.Like{}, &models.SavedPost{},
			&models.Share{}, &models.PollVote{},
		} {
			if err := tx.Where("post_id IN ?", ids).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("reported_post_id IN ?", ids).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_post_id IN ?", ids).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := unlinkHashtags(tx, ids); err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Post{}).Error
	})
}

// ToggleRepost flips the (user, original) repost state. Reposting a repost
// attaches to the original, keeping the chain flat. The insert is guarded
// by the unique (author, repost_parent) index; a conflict means the repost
// already exists and turns the call into an un-repost.
func (r *PostgresPostRepository) ToggleRepost(userID, postID uint, quoteText string) (bool, int64, error) {
	var reposted bool
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var target models.Post
		if err := tx.First(&target, postID).Error; err != nil {
			return err
		}
		originalID := target.ID
		if target.RepostParentID != nil {
			originalID = *target.RepostParentID
		}

		repost := models.Post{
			AuthorID:       userID,
			RepostParentID: &originalID,
			IsQuote:        quoteText != "",
			QuoteText:      quoteText,
			PostType:       models.PostTypeText,
			IsPublic:       true,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&repost)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			reposted = true
		} else {
			if err := tx.Where("author_id = ? AND repost_parent_id = ?", userID, originalID).Delete(&models.Post{}).Error; err != nil {
				return err
			}
			reposted = false
		}
		return tx.Model(&models.Post{}).Where("repost_parent_id = ?", originalID).Count(&count).Error
	})
	return reposted, count, err
}

// GetRepostCountMap returns repost counts keyed by original post ID.
func (r *PostgresPostRepository) GetRepostCountMap(postIDs []uint) (map[uint]int64, error) {
	return countByColumn(r.db, &models.Post{}, "repost_parent_id", postIDs)
}

// CreateShare records a share of a post.
func (r *PostgresPostRepository) CreateShare(share *models.Share) error {
	return r.db.Create(share).Error
}

// GetShareCountMap returns share counts keyed by post ID.
func (r *PostgresPostRepository) GetShareCountMap(postIDs []uint) (map[uint]int64, error) {
	return countByColumn(r.db, &models.Share{}, "post_id", postIDs)
}

// VotePoll records one user's vote. For single-choice polls any previous
// vote on the same post is replaced in the same transaction; for
// multiple-choice polls votes accumulate, one per option, and a duplicate
// vote on the same option is a no-op.
func (r *PostgresPostRepository) VotePoll(userID, postID uint, optionIndex int, multipleChoice bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if !multipleChoice {
			if err := tx.Where("user_id = ? AND post_id = ? AND option_index <> ?", userID, postID, optionIndex).
				Delete(&models.PollVote{}).Error; err != nil {
				return err
			}
		}
		vote := models.PollVote{UserID: userID, PostID: postID, OptionIndex: optionIndex}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote).Error
	})
}

// GetPollResults returns per-option vote counts and the caller's own votes.
func (r *PostgresPostRepository) GetPollResults(postID uint, userID uint) (map[int]int64, []int, error) {
	type row struct {
		OptionIndex int
		Total       int64
	}
	var rows []row
	err := r.db.Model(&models.PollVote{}).
		Select("option_index, COUNT(*) as total").
		Where("post_id = ?", postID).
		Group("option_index").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, rw := range rows {
		counts[rw.OptionIndex] = rw.Total
	}

	var mine []int
	err = r.db.Model(&models.PollVote{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("option_index").
		Pluck("option_index", &mine).Error
	return counts, mine, err
}

// GetPostsByHashtag retrieves recent public posts carrying the tag.
func (r *PostgresPostRepository) GetPostsByHashtag(tag string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_public = ?", true).
		Where("id IN (?)", r.db.Table("post_hashtags").Select("post_id").
			Where("hashtag_id IN (?)", r.db.Table("hashtags").Select("id").Where("name = ?", strings.ToLower(tag)))).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// syncHashtags extracts #tags from the post content, upserts them and links
// them to the post, bumping usage counts.
func syncHashtags(tx *gorm.DB, post *models.Post) error {
	matches := hashtagPattern.FindAllStringSubmatch(post.Content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Hashtag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Hashtag{Name: name}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{ID: post.ID}).Association("Hashtags").Append(&tag); err != nil {
			return err
		}
		if err := tx.Model(&models.Hashtag{}).Where("id = ?", tag.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

// unlinkHashtags removes the hashtag links of the given posts and winds
// their usage counts back down.
func unlinkHashtags(tx *gorm.DB, postIDs []uint) error {
	if err := tx.Exec(
		"UPDATE hashtags SET usage_count = usage_count - 1 WHERE id IN (SELECT hashtag_id FROM post_hashtags WHERE post_id IN ?) AND usage_count > 0",
		postIDs,
	).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM post_hashtags WHERE post_id IN ?", postIDs).Error
}

// countByColumn groups rows of model by column over the given IDs.
func countByColumn(db *gorm.DB, model interface{}, column string, ids []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(ids) == 0 {
		return result, nil
	}
	type row struct {
		Key   uint
		Total int64
	}
	var rows []row
	err := db.Model(model).
		Select(fmt.Sprintf("%s as key, COUNT(*) as total", column)).
		Where(fmt.Sprintf("%s IN ?", column), ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		result[rw.Key] = rw.Total
	}
	return result, nil
}
