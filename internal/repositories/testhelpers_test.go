package repositories

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// setupTestDB opens an isolated in-memory database with the full schema.
// Each call gets its own named database so the connection pool shares
// state within a test but never across tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Interest{},
		&models.Post{},
		&models.Hashtag{},
		&models.Share{},
		&models.PollVote{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Follow{},
		&models.Block{},
		&models.SavedPost{},
		&models.Story{},
		&models.StoryView{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.ConversationMessage{},
		&models.Report{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// createTestUser inserts a user (with profile) and returns it.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	repo := NewPostgresUserRepository(db)
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
	}
	require.NoError(t, repo.CreateUser(user))
	return user
}

// createTestPost inserts a post for the given author.
func createTestPost(t *testing.T, db *gorm.DB, authorID uint, content string) *models.Post {
	t.Helper()

	repo := NewPostgresPostRepository(db)
	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		PostType: models.PostTypeText,
		IsPublic: true,
	}
	require.NoError(t, repo.CreatePost(post))
	return post
}
