package repositories

import (
	"testing"
	"time"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedContainsFollowedAndOwnPostsOnly(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	followRepo := NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := followRepo.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	own := createTestPost(t, db, alice.ID, "mine")
	followed := createTestPost(t, db, bob.ID, "from bob")
	createTestPost(t, db, carol.ID, "from carol")

	authorIDs, err := followRepo.GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	authorIDs = append(authorIDs, alice.ID)

	posts, err := postRepo.GetFeedPosts(alice.ID, authorIDs, time.Time{}, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := []uint{posts[0].ID, posts[1].ID}
	assert.Contains(t, ids, own.ID)
	assert.Contains(t, ids, followed.ID)
}

func TestFeedHidesOtherAuthorsPrivatePosts(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	private := &models.Post{AuthorID: bob.ID, Content: "secret", PostType: models.PostTypeText, IsPublic: false}
	require.NoError(t, postRepo.CreatePost(private))
	ownPrivate := &models.Post{AuthorID: alice.ID, Content: "my secret", PostType: models.PostTypeText, IsPublic: false}
	require.NoError(t, postRepo.CreatePost(ownPrivate))

	posts, err := postRepo.GetFeedPosts(alice.ID, []uint{alice.ID, bob.ID}, time.Time{}, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, ownPrivate.ID, posts[0].ID)
}

func TestFeedKeysetPaginationWalksWithoutGapsOrDuplicates(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		createTestPost(t, db, alice.ID, "post")
	}

	seen := make(map[uint]bool)
	var beforeTime time.Time
	var beforeID uint
	var lastID uint
	for {
		page, err := postRepo.GetFeedPosts(alice.ID, []uint{alice.ID}, beforeTime, beforeID, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			assert.False(t, seen[p.ID], "post served twice")
			seen[p.ID] = true
			if lastID != 0 {
				assert.Less(t, p.ID, lastID)
			}
			lastID = p.ID
		}
		last := page[len(page)-1]
		beforeTime, beforeID = last.CreatedAt, last.ID
	}
	assert.Len(t, seen, 5)
}

func TestGetPostsByAuthorHidesPrivateFromOthers(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestPost(t, db, alice.ID, "public")
	private := &models.Post{AuthorID: alice.ID, Content: "private", PostType: models.PostTypeText, IsPublic: false}
	require.NoError(t, postRepo.CreatePost(private))

	posts, err := postRepo.GetPostsByAuthor(alice.ID, bob.ID, time.Time{}, 0, 50)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = postRepo.GetPostsByAuthor(alice.ID, alice.ID, time.Time{}, 0, 50)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestToggleRepostFlipsAndKeepsChainFlat(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	original := createTestPost(t, db, alice.ID, "original")

	reposted, count, err := postRepo.ToggleRepost(bob.ID, original.ID, "")
	require.NoError(t, err)
	assert.True(t, reposted)
	assert.Equal(t, int64(1), count)

	// Find Bob's repost and repost it; the new repost attaches to the
	// original, not to Bob's repost.
	var bobRepost models.Post
	require.NoError(t, db.Where("author_id = ? AND repost_parent_id = ?", bob.ID, original.ID).First(&bobRepost).Error)

	reposted, count, err = postRepo.ToggleRepost(carol.ID, bobRepost.ID, "")
	require.NoError(t, err)
	assert.True(t, reposted)
	assert.Equal(t, int64(2), count)

	var carolRepost models.Post
	require.NoError(t, db.Where("author_id = ?", carol.ID).First(&carolRepost).Error)
	require.NotNil(t, carolRepost.RepostParentID)
	assert.Equal(t, original.ID, *carolRepost.RepostParentID)

	// Toggling again removes the repost.
	reposted, count, err = postRepo.ToggleRepost(bob.ID, original.ID, "")
	require.NoError(t, err)
	assert.False(t, reposted)
	assert.Equal(t, int64(1), count)
}

func TestVotePollSingleChoiceReplacesPreviousVote(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	poll := &models.Post{
		AuthorID:    alice.ID,
		Content:     "pick one",
		PostType:    models.PostTypePoll,
		IsPublic:    true,
		PollOptions: `["red","blue"]`,
	}
	require.NoError(t, postRepo.CreatePost(poll))

	require.NoError(t, postRepo.VotePoll(bob.ID, poll.ID, 0, false))
	require.NoError(t, postRepo.VotePoll(bob.ID, poll.ID, 1, false))

	counts, mine, err := postRepo.GetPollResults(poll.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[0])
	assert.Equal(t, int64(1), counts[1])
	assert.Equal(t, []int{1}, mine)
}

func TestVotePollMultipleChoiceAccumulatesAndDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	poll := &models.Post{
		AuthorID:           alice.ID,
		Content:            "pick many",
		PostType:           models.PostTypePoll,
		IsPublic:           true,
		PollOptions:        `["a","b","c"]`,
		PollMultipleChoice: true,
	}
	require.NoError(t, postRepo.CreatePost(poll))

	require.NoError(t, postRepo.VotePoll(bob.ID, poll.ID, 0, true))
	require.NoError(t, postRepo.VotePoll(bob.ID, poll.ID, 2, true))
	// Duplicate vote on the same option is a no-op.
	require.NoError(t, postRepo.VotePoll(bob.ID, poll.ID, 0, true))

	counts, mine, err := postRepo.GetPollResults(poll.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[0])
	assert.Equal(t, int64(1), counts[2])
	assert.Equal(t, []int{0, 2}, mine)
}

func TestHashtagsAreExtractedAndSearchable(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	post := createTestPost(t, db, alice.ID, "loving #Golang and #golang and #testing")

	var tag models.Hashtag
	require.NoError(t, db.Where("name = ?", "golang").First(&tag).Error)
	assert.Equal(t, uint(1), tag.UsageCount)

	posts, err := postRepo.GetPostsByHashtag("golang", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	commentRepo := NewPostgresCommentRepository(db)
	likeRepo := NewPostgresLikeRepository(db)
	savedRepo := NewPostgresSavedPostRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "doomed #gone")

	comment := &models.Comment{UserID: bob.ID, PostID: post.ID, Content: "rip"}
	require.NoError(t, commentRepo.CreateComment(comment))
	_, _, err := likeRepo.ToggleLike(bob.ID, post.ID)
	require.NoError(t, err)
	_, _, err = likeRepo.ToggleCommentLike(alice.ID, comment.ID)
	require.NoError(t, err)
	_, err = savedRepo.ToggleSave(bob.ID, post.ID, "")
	require.NoError(t, err)
	_, _, err = postRepo.ToggleRepost(bob.ID, post.ID, "")
	require.NoError(t, err)

	require.NoError(t, postRepo.DeletePost(post.ID))

	var count int64
	for _, m := range []interface{}{
		&models.Post{}, &models.Comment{}, &models.Like{},
		&models.CommentLike{}, &models.SavedPost{},
	} {
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}

	// Hashtag usage is wound back down.
	var tag models.Hashtag
	require.NoError(t, db.Where("name = ?", "gone").First(&tag).Error)
	assert.Equal(t, uint(0), tag.UsageCount)
}

func TestUpdatePostRelinksHashtags(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	post := createTestPost(t, db, alice.ID, "about #cats")
	post.Content = "actually about #dogs"
	require.NoError(t, postRepo.UpdatePost(post))

	posts, err := postRepo.GetPostsByHashtag("dogs", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = postRepo.GetPostsByHashtag("cats", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreatePostPersistsPrivateVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	post := &models.Post{AuthorID: alice.ID, Content: "just me", PostType: models.PostTypeText, IsPublic: false}
	require.NoError(t, repo.CreatePost(post))

	stored, err := repo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublic)
}
