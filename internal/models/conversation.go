package models

import "time"

// Conversation is a direct (two-participant) or group chat. A direct
// conversation is unique per unordered user pair; group conversations are
// always created fresh. UpdatedAt is bumped on every message and drives
// conversation-list ordering.
type Conversation struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	IsGroup      bool      `json:"is_group" gorm:"default:false"`
	GroupName    string    `json:"group_name,omitempty" gorm:"size:100"`
	GroupPhoto   string    `json:"group_photo,omitempty"`
	Participants []User    `json:"participants,omitempty" gorm:"many2many:conversation_participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"index"`
}

// ConversationParticipant is the join row backing Conversation.Participants.
// It exists as a model so membership can be queried and mutated directly.
type ConversationParticipant struct {
	ConversationID uint      `json:"conversation_id" gorm:"primaryKey;autoIncrement:false"`
	UserID         uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationMessage is one message inside a conversation. Read state is
// per-message; unread counts never include the viewer's own messages.
type ConversationMessage struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	ConversationID uint       `json:"conversation_id" gorm:"index"`
	SenderID       uint       `json:"sender_id" gorm:"index"`
	Content        string     `json:"content"`
	ImageURL       string     `json:"image_url,omitempty"`
	IsRead         bool       `json:"is_read" gorm:"default:false;index"`
	ReplyToID      *uint      `json:"reply_to_id,omitempty" gorm:"index"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
}

// IsEdited reports whether the message has been edited after sending.
func (m *ConversationMessage) IsEdited() bool {
	return m.EditedAt != nil
}

// ConversationSummary is a conversation enriched for the list endpoint.
type ConversationSummary struct {
	Conversation
	LastMessage *ConversationMessage `json:"last_message,omitempty"`
	UnreadCount int64                `json:"unread_count"`
}

// StartConversationRequest defines the request body for starting (or
// fetching) a direct conversation with another user.
type StartConversationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// CreateGroupRequest defines the request body for creating a group chat.
type CreateGroupRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []uint `json:"member_ids" validate:"required,min=1"`
}

// SendMessageRequest defines the request body for sending a message. Either
// content or an uploaded image must be present.
type SendMessageRequest struct {
	Content   string `json:"content" form:"content" validate:"omitempty,max=5000"`
	ReplyToID *uint  `json:"reply_to_id" form:"reply_to_id"`
}

// EditMessageRequest defines the request body for editing a sent message.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
