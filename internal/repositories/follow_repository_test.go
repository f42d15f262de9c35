package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	created, err := repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// A second follow of the same pair changes nothing.
	created, err = repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUnfollowIsNoOpWhenNotFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	removed, err := repo.Unfollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	removed, err = repo.Unfollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowDirectionIsIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Bob does not automatically follow Alice back.
	following, err = repo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGetFollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := repo.Follow(bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Follow(carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := repo.GetFollowers(alice.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := repo.GetFollowing(alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	ids, err := repo.GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids)
}

func TestSuggestCandidatesExcludeSelfFollowedAndBlocked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	moderationRepo := NewPostgresModerationRepository(db)

	alice := createTestUser(t, db, "alice")
	followed := createTestUser(t, db, "followed")
	blocked := createTestUser(t, db, "blocked")
	blocker := createTestUser(t, db, "blocker")
	fresh := createTestUser(t, db, "fresh")

	_, err := repo.Follow(alice.ID, followed.ID)
	require.NoError(t, err)
	_, err = moderationRepo.ToggleBlock(alice.ID, blocked.ID)
	require.NoError(t, err)
	_, err = moderationRepo.ToggleBlock(blocker.ID, alice.ID)
	require.NoError(t, err)

	candidates, err := repo.SuggestCandidateIDs(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fresh.ID}, candidates)
}

func TestSampleSuggestionsBoundsResult(t *testing.T) {
	repo := NewPostgresFollowRepository(nil)
	candidates := []uint{1, 2, 3, 4, 5}

	picked := repo.SampleSuggestions(candidates, 3)
	assert.Len(t, picked, 3)

	picked = repo.SampleSuggestions(candidates, 10)
	assert.Len(t, picked, 5)

	assert.Empty(t, repo.SampleSuggestions(nil, 3))
}
