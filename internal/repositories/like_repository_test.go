package repositories

import (
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeFlipsState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "hello")

	liked, count, err := repo.ToggleLike(alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = repo.ToggleLike(alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}

func TestToggleLikePairReturnsToOriginalState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "hello")

	_, _, err := repo.ToggleLike(bob.ID, post.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = repo.ToggleLike(alice.ID, post.ID)
		require.NoError(t, err)
	}

	// Two toggles by Alice cancel out; Bob's like survives.
	count, err := repo.GetLikesCountByPostID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	has, err := repo.HasUserLikedPost(alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = repo.HasUserLikedPost(bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetLikeCountMapAndLikedIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	first := createTestPost(t, db, alice.ID, "first")
	second := createTestPost(t, db, alice.ID, "second")

	_, _, err := repo.ToggleLike(alice.ID, first.ID)
	require.NoError(t, err)
	_, _, err = repo.ToggleLike(bob.ID, first.ID)
	require.NoError(t, err)
	_, _, err = repo.ToggleLike(bob.ID, second.ID)
	require.NoError(t, err)

	counts, err := repo.GetLikeCountMap([]uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[first.ID])
	assert.Equal(t, int64(1), counts[second.ID])

	liked, err := repo.GetLikedPostIDs(alice.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.True(t, liked[first.ID])
	assert.False(t, liked[second.ID])
}

func TestToggleCommentLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	commentRepo := NewPostgresCommentRepository(db)
	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "hello")

	comment := &models.Comment{UserID: alice.ID, PostID: post.ID, Content: "nice"}
	require.NoError(t, commentRepo.CreateComment(comment))

	liked, count, err := repo.ToggleCommentLike(alice.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = repo.ToggleCommentLike(alice.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}
