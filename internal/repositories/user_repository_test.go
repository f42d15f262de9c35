package repositories

import (
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserAlsoCreatesProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	alice := createTestUser(t, db, "alice")

	profile, err := repo.GetProfileByUserID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.UserID)
}

func TestGetUserLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")

	byID, err := repo.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byUsername, err := repo.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byUsername.ID)

	byEmail, err := repo.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchUsersIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	createTestUser(t, db, "alice")
	createTestUser(t, db, "alicia")
	createTestUser(t, db, "bob")

	users, err := repo.SearchUsers("ALI", 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.SearchUsers("bob", 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSetProfileInterestsReplacesSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")

	profile, err := repo.GetProfileByUserID(alice.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SetProfileInterests(profile.ID, []string{"music", "hiking"}))
	profile, err = repo.GetProfileByUserID(alice.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Interests, 2)

	require.NoError(t, repo.SetProfileInterests(profile.ID, []string{"music"}))
	profile, err = repo.GetProfileByUserID(alice.ID)
	require.NoError(t, err)
	require.Len(t, profile.Interests, 1)
	assert.Equal(t, "music", profile.Interests[0].Name)
}

func TestGetUsersByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	users, err := repo.GetUsersByIDs([]uint{alice.ID, bob.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "alice", users[alice.ID].Username)

	users, err = repo.GetUsersByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLocalSignupsCoexistWithoutFirebaseUID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	assert.Nil(t, alice.FirebaseUID)
	assert.Nil(t, bob.FirebaseUID)

	uid := "firebase-uid-1"
	carol := &models.User{Username: "carol", Email: "carol@example.com", FirebaseUID: &uid}
	require.NoError(t, repo.CreateUser(carol))

	found, err := repo.GetUserByFirebaseUID(uid)
	require.NoError(t, err)
	assert.Equal(t, carol.ID, found.ID)
}

func TestCompactUsersCarryProfileAvatar(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")

	profile, err := repo.GetProfileByUserID(alice.ID)
	require.NoError(t, err)
	profile.AvatarURL = "/media/avatars/alice.png"
	require.NoError(t, repo.UpdateProfile(profile))

	users, err := repo.GetUsersByIDs([]uint{alice.ID})
	require.NoError(t, err)
	user := users[alice.ID]
	compact := user.ToCompact()
	assert.Equal(t, "/media/avatars/alice.png", compact.AvatarURL)
}
