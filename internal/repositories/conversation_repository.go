package repositories

import (
	"time"

	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository defines the interface for messaging operations
type ConversationRepository interface {
	FindDirectConversation(userA, userB uint) (*models.Conversation, error)
	StartDirectConversation(userA, userB uint) (*models.Conversation, error)
	CreateGroupConversation(name, photo string, memberIDs []uint) (*models.Conversation, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	IsParticipant(conversationID, userID uint) (bool, error)
	GetConversationsForUser(userID uint) ([]models.ConversationSummary, error)
	CreateMessage(message *models.ConversationMessage) error
	GetMessages(conversationID uint, beforeID uint, limit int) ([]models.ConversationMessage, error)
	GetMessageByID(id uint) (*models.ConversationMessage, error)
	MarkConversationRead(conversationID, userID uint) error
	GetUnreadCount(conversationID, userID uint) (int64, error)
	UpdateMessage(message *models.ConversationMessage) error
	DeleteMessage(id uint) error
	ClearConversation(conversationID uint) error
	RemoveParticipant(conversationID, userID uint) error
}

// PostgresConversationRepository implements ConversationRepository
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// FindDirectConversation looks up the non-group conversation whose
// participant set is exactly {userA, userB}. Returns
// gorm.ErrRecordNotFound when none exists.
func (r *PostgresConversationRepository) FindDirectConversation(userA, userB uint) (*models.Conversation, error) {
	var id uint
	err := r.db.Raw(`
		SELECT c.id FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE c.is_group = ?
		GROUP BY c.id
		HAVING COUNT(p.user_id) = 2
		   AND SUM(CASE WHEN p.user_id IN (?, ?) THEN 1 ELSE 0 END) = 2
		LIMIT 1`, false, userA, userB).Scan(&id).Error
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetConversationByID(id)
}

// StartDirectConversation returns the existing direct conversation between
// the two users or creates it. Repeated calls always land on the same row.
func (r *PostgresConversationRepository) StartDirectConversation(userA, userB uint) (*models.Conversation, error) {
	if conv, err := r.FindDirectConversation(userA, userB); err == nil {
		return conv, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var conv models.Conversation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		conv = models.Conversation{IsGroup: false}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for _, uid := range []uint{userA, userB} {
			p := models.ConversationParticipant{ConversationID: conv.ID, UserID: uid}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetConversationByID(conv.ID)
}

// CreateGroupConversation creates a fresh group chat; groups carry no
// uniqueness constraint.
func (r *PostgresConversationRepository) CreateGroupConversation(name, photo string, memberIDs []uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		conv = models.Conversation{IsGroup: true, GroupName: name, GroupPhoto: photo}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for _, uid := range memberIDs {
			p := models.ConversationParticipant{ConversationID: conv.ID, UserID: uid}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetConversationByID(conv.ID)
}

// GetConversationByID retrieves a conversation with participants preloaded
func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.Preload("Participants").First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// IsParticipant checks conversation membership
func (r *PostgresConversationRepository) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetConversationsForUser lists the user's conversations, most recently
// active first, each with its last message and the user's unread count.
func (r *PostgresConversationRepository) GetConversationsForUser(userID uint) ([]models.ConversationSummary, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Participants").
		Where("id IN (?)", r.db.Model(&models.ConversationParticipant{}).
			Select("conversation_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := models.ConversationSummary{Conversation: conv}

		var last models.ConversationMessage
		err := r.db.Where("conversation_id = ?", conv.ID).
			Order("id DESC").First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		unread, err := r.GetUnreadCount(conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CreateMessage appends a message and bumps the conversation's
// last-activity timestamp in the same transaction.
func (r *PostgresConversationRepository) CreateMessage(message *models.ConversationMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error
	})
}

// GetMessages retrieves a window of messages, oldest first. A non-zero
// beforeID fetches the page preceding that message.
func (r *PostgresConversationRepository) GetMessages(conversationID uint, beforeID uint, limit int) ([]models.ConversationMessage, error) {
	var messages []models.ConversationMessage
	q := r.db.Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Fetched newest-first to get the latest window; clients expect
	// chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetMessageByID retrieves a single message
func (r *PostgresConversationRepository) GetMessageByID(id uint) (*models.ConversationMessage, error) {
	var message models.ConversationMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkConversationRead marks every unread message in the conversation not
// sent by the user as read, in one atomic update.
func (r *PostgresConversationRepository) MarkConversationRead(conversationID, userID uint) error {
	return r.db.Model(&models.ConversationMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error
}

// GetUnreadCount counts unread messages in the conversation that the user
// did not send themself.
func (r *PostgresConversationRepository) GetUnreadCount(conversationID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ConversationMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}

// UpdateMessage persists an edit to a message
func (r *PostgresConversationRepository) UpdateMessage(message *models.ConversationMessage) error {
	return r.db.Save(message).Error
}

// DeleteMessage removes a message. Replies that pointed at it keep their
// content; only the reference is cleared.
func (r *PostgresConversationRepository) DeleteMessage(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ConversationMessage{}).
			Where("reply_to_id = ?", id).
			Update("reply_to_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ConversationMessage{}, id).Error
	})
}

// ClearConversation deletes every message in the conversation.
func (r *PostgresConversationRepository) ClearConversation(conversationID uint) error {
	return r.db.Where("conversation_id = ?", conversationID).Delete(&models.ConversationMessage{}).Error
}

// RemoveParticipant drops a user from the conversation.
func (r *PostgresConversationRepository) RemoveParticipant(conversationID, userID uint) error {
	return r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&models.ConversationParticipant{}).Error
}
