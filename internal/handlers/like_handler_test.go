package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerTestDBCounter atomic.Int64

// newHandlerTestDB opens an isolated in-memory database with the full
// schema, mirroring the repository test setup.
func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlerdb%d?mode=memory&cache=shared", handlerTestDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Interest{},
		&models.Post{},
		&models.Hashtag{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Notification{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// authedContext builds an Echo context carrying the JWT claims the auth
// middleware would have set.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *models.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})
	return c
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	repo := repositories.NewPostgresUserRepository(db)
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func TestTogglePostLikeMirrorsNotification(t *testing.T) {
	db := newHandlerTestDB(t)
	e := echo.New()

	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	handler := NewLikeHandler(likeRepo, postRepo, commentRepo, userRepo, notificationRepo)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := &models.Post{AuthorID: alice.ID, Content: "hello", PostType: models.PostTypeText, IsPublic: true}
	require.NoError(t, postRepo.CreatePost(post))

	like := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec, bob)
		c.SetPath("/posts/:id/like")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprintf("%d", post.ID))
		require.NoError(t, handler.TogglePostLike(c))
		return rec
	}

	rec := like()
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Liked     bool  `json:"liked"`
			LikeCount int64 `json:"like_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Liked)
	assert.Equal(t, int64(1), resp.Data.LikeCount)

	count, err := notificationRepo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The unlike removes the mirrored notification.
	rec = like()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Liked)
	assert.Equal(t, int64(0), resp.Data.LikeCount)

	count, err = notificationRepo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLikingOwnPostCreatesNoNotification(t *testing.T) {
	db := newHandlerTestDB(t)
	e := echo.New()

	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	handler := NewLikeHandler(likeRepo, postRepo, commentRepo, userRepo, notificationRepo)

	alice := seedUser(t, db, "alice")
	post := &models.Post{AuthorID: alice.ID, Content: "self five", PostType: models.PostTypeText, IsPublic: true}
	require.NoError(t, postRepo.CreatePost(post))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, alice)
	c.SetPath("/posts/:id/like")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", post.ID))
	require.NoError(t, handler.TogglePostLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err := notificationRepo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTogglePostLikeRequiresAuth(t *testing.T) {
	db := newHandlerTestDB(t)
	e := echo.New()

	handler := NewLikeHandler(
		repositories.NewPostgresLikeRepository(db),
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresCommentRepository(db),
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresNotificationRepository(db),
	)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/posts/:id/like")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.TogglePostLike(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
