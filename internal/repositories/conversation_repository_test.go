package repositories

import (
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDirectConversationIsUniquePerPair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	// Starting again, from either side, returns the same conversation.
	second, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	third, err := repo.StartDirectConversation(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDirectConversationNotSharedAcrossPairs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	ab, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	ac, err := repo.StartDirectConversation(alice.ID, carol.ID)
	require.NoError(t, err)
	assert.NotEqual(t, ab.ID, ac.ID)
}

func TestGroupConversationsAreNeverDeduplicated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	members := []uint{alice.ID, bob.ID, carol.ID}
	first, err := repo.CreateGroupConversation("book club", "", members)
	require.NoError(t, err)
	second, err := repo.CreateGroupConversation("book club", "", members)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.IsGroup)

	ok, err := repo.IsParticipant(first.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
			ConversationID: conv.ID, SenderID: bob.ID, Content: "hey",
		}))
	}
	require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
		ConversationID: conv.ID, SenderID: alice.ID, Content: "hi",
	}))

	count, err := repo.GetUnreadCount(conv.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.GetUnreadCount(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkConversationReadClearsOnlyOthersMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
		ConversationID: conv.ID, SenderID: bob.ID, Content: "one",
	}))
	require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
		ConversationID: conv.ID, SenderID: alice.ID, Content: "two",
	}))

	require.NoError(t, repo.MarkConversationRead(conv.ID, alice.ID))

	count, err := repo.GetUnreadCount(conv.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Alice's own message stays unread for Bob.
	count, err = repo.GetUnreadCount(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetMessagesReturnsWindowInAscendingOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	contents := []string{"first", "second", "third", "fourth"}
	for _, content := range contents {
		require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
			ConversationID: conv.ID, SenderID: alice.ID, Content: content,
		}))
	}

	messages, err := repo.GetMessages(conv.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "third", messages[0].Content)
	assert.Equal(t, "fourth", messages[1].Content)

	// Walk backwards from the oldest message of the page.
	older, err := repo.GetMessages(conv.ID, messages[0].ID, 2)
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, "first", older[0].Content)
	assert.Equal(t, "second", older[1].Content)
}

func TestDeleteMessageClearsReplyReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	target := &models.ConversationMessage{ConversationID: conv.ID, SenderID: alice.ID, Content: "original"}
	require.NoError(t, repo.CreateMessage(target))
	reply := &models.ConversationMessage{ConversationID: conv.ID, SenderID: bob.ID, Content: "reply", ReplyToID: &target.ID}
	require.NoError(t, repo.CreateMessage(reply))

	require.NoError(t, repo.DeleteMessage(target.ID))

	survivor, err := repo.GetMessageByID(reply.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.ReplyToID)
}

func TestConversationListOrderedByActivityWithUnread(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	withBob, err := repo.StartDirectConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	withCarol, err := repo.StartDirectConversation(alice.ID, carol.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
		ConversationID: withCarol.ID, SenderID: carol.ID, Content: "old",
	}))
	require.NoError(t, repo.CreateMessage(&models.ConversationMessage{
		ConversationID: withBob.ID, SenderID: bob.ID, Content: "newest",
	}))

	summaries, err := repo.GetConversationsForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, withBob.ID, summaries[0].ID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "newest", summaries[0].LastMessage.Content)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)

	// Carol's conversation is not in Bob's list.
	bobSummaries, err := repo.GetConversationsForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobSummaries, 1)
	assert.Equal(t, withBob.ID, bobSummaries[0].ID)
}
