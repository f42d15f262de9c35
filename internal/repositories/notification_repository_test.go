package repositories

import (
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(&models.Notification{
			Type: models.NotificationTypeFollow, SenderID: bob.ID, RecipientID: alice.ID,
		}))
	}

	count, err := repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	notifications, total, err := repo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notifications, 3)

	require.NoError(t, repo.MarkAsRead(alice.ID, notifications[0].ID))
	count, err = repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkAllAsRead(alice.ID))
	count, err = repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAsReadScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	notification := &models.Notification{
		Type: models.NotificationTypeFollow, SenderID: bob.ID, RecipientID: alice.ID,
	}
	require.NoError(t, repo.CreateNotification(notification))

	// Bob cannot mark Alice's notification as read.
	require.NoError(t, repo.MarkAsRead(bob.ID, notification.ID))
	count, err := repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteMirrorRemovesMatchingNotification(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "hello")
	other := createTestPost(t, db, alice.ID, "other")

	require.NoError(t, repo.CreateNotification(&models.Notification{
		Type: models.NotificationTypeLike, SenderID: bob.ID, RecipientID: alice.ID, TargetPostID: &post.ID,
	}))
	require.NoError(t, repo.CreateNotification(&models.Notification{
		Type: models.NotificationTypeLike, SenderID: bob.ID, RecipientID: alice.ID, TargetPostID: &other.ID,
	}))

	require.NoError(t, repo.DeleteMirror(models.NotificationTypeLike, bob.ID, alice.ID, &post.ID, nil))

	notifications, total, err := repo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notifications, 1)
	assert.Equal(t, other.ID, *notifications[0].TargetPostID)
}

func TestDeleteMirrorForFollowMatchesWithoutTargets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.CreateNotification(&models.Notification{
		Type: models.NotificationTypeFollow, SenderID: bob.ID, RecipientID: alice.ID,
	}))

	require.NoError(t, repo.DeleteMirror(models.NotificationTypeFollow, bob.ID, alice.ID, nil, nil))

	count, err := repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
