package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/cache"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowHandler(db *gorm.DB) (*FollowHandler, repositories.NotificationRepository) {
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	return NewFollowHandler(
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresModerationRepository(db),
		notificationRepo,
		nil,
		cache.New(nil),
	), notificationRepo
}

func followTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newHandlerTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.Follow{}, &models.Block{}))
	return db
}

func TestFollowRejectsSelf(t *testing.T) {
	db := followTestDB(t)
	e := echo.New()
	handler, _ := newFollowHandler(db)
	alice := seedUser(t, db, "alice")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, alice)
	c.SetPath("/users/:id/follow")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", alice.ID))

	err := handler.Follow(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestFollowThenUnfollowMirrorsNotification(t *testing.T) {
	db := followTestDB(t)
	e := echo.New()
	handler, notificationRepo := newFollowHandler(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	call := func(method string, fn echo.HandlerFunc) {
		req := httptest.NewRequest(method, "/", nil)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec, alice)
		c.SetPath("/users/:id/follow")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprintf("%d", bob.ID))
		require.NoError(t, fn(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	call(http.MethodPost, handler.Follow)
	count, err := notificationRepo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A repeated follow does not duplicate the notification.
	call(http.MethodPost, handler.Follow)
	count, err = notificationRepo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	call(http.MethodDelete, handler.Unfollow)
	count, err = notificationRepo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestFollowBlockedUserIsForbidden(t *testing.T) {
	db := followTestDB(t)
	e := echo.New()
	handler, _ := newFollowHandler(db)
	moderationRepo := repositories.NewPostgresModerationRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	_, err := moderationRepo.ToggleBlock(bob.ID, alice.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, alice)
	c.SetPath("/users/:id/follow")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", bob.ID))

	err = handler.Follow(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
