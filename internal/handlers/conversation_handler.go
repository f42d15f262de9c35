package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/mytro-app/backend/pkg/storage"
)

// ConversationHandler handles direct and group messaging HTTP requests
type ConversationHandler struct {
	conversationRepository repositories.ConversationRepository
	userRepository         repositories.UserRepository
	moderationRepository   repositories.ModerationRepository
	mediaStore             *storage.MediaStore
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(
	conversationRepo repositories.ConversationRepository,
	userRepo repositories.UserRepository,
	moderationRepo repositories.ModerationRepository,
	mediaStore *storage.MediaStore,
) *ConversationHandler {
	return &ConversationHandler{
		conversationRepository: conversationRepo,
		userRepository:         userRepo,
		moderationRepository:   moderationRepo,
		mediaStore:             mediaStore,
	}
}

// RegisterConversationRoutes registers messaging routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.POST("/conversations", h.StartConversation)
	g.POST("/conversations/group", h.CreateGroup)
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.POST("/conversations/:id/read", h.MarkRead)
	g.DELETE("/conversations/:id/messages", h.ClearConversation)
	g.DELETE("/conversations/:id/leave", h.LeaveConversation)
	g.PUT("/messages/:id", h.EditMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// StartConversation opens (or returns the existing) direct conversation
// with another user. There is at most one per user pair.
func (h *ConversationHandler) StartConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot message yourself")
	}
	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if blocked, _ := h.moderationRepository.IsBlocked(req.UserID, currentUserID); blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot message this user")
	}
	if blocked, _ := h.moderationRepository.IsBlocked(currentUserID, req.UserID); blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You have blocked this user")
	}

	conversation, err := h.conversationRepository.StartDirectConversation(currentUserID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conversation})
}

// CreateGroup creates a group conversation with the viewer plus the given
// members. Groups are never deduplicated.
func (h *ConversationHandler) CreateGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	memberIDs := []uint{currentUserID}
	seen := map[uint]bool{currentUserID: true}
	for _, id := range req.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := h.userRepository.GetUserByID(id); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		memberIDs = append(memberIDs, id)
	}
	if len(memberIDs) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "A group needs at least one other member")
	}

	conversation, err := h.conversationRepository.CreateGroupConversation(req.Name, "", memberIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": conversation})
}

// GetConversations lists the viewer's conversations, most recently active
// first, each with its last message and unread count.
func (h *ConversationHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	summaries, err := h.conversationRepository.GetConversationsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": summaries}})
}

// requireParticipant loads the conversation and rejects non-members.
func (h *ConversationHandler) requireParticipant(conversationID, userID uint) error {
	ok, err := h.conversationRepository.IsParticipant(conversationID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "You are not part of this conversation")
	}
	return nil
}

// GetMessages returns a window of messages, oldest first within the window.
// Pagination walks backwards with a before message ID.
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireParticipant(conversationID, currentUserID); err != nil {
		return err
	}

	var beforeID uint
	if raw := c.QueryParam("before"); raw != "" {
		if id, err := parseQueryUint(raw); err == nil {
			beforeID = id
		}
	}
	limit := pageLimit(c, 50, 100)

	messages, err := h.conversationRepository.GetMessages(conversationID, beforeID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}

// SendMessage posts a message into a conversation. Either text content or
// an image must be present.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireParticipant(conversationID, currentUserID); err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := models.ConversationMessage{
		ConversationID: conversationID,
		SenderID:       currentUserID,
		Content:        req.Content,
	}
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.mediaStore.Save(file, "messages")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		message.ImageURL = url
	}
	if message.Content == "" && message.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty")
	}

	if req.ReplyToID != nil {
		replyTo, err := h.conversationRepository.GetMessageByID(*req.ReplyToID)
		if err != nil || replyTo.ConversationID != conversationID {
			return echo.NewHTTPError(http.StatusBadRequest, "Reply target not in this conversation")
		}
		message.ReplyToID = req.ReplyToID
	}

	if err := h.conversationRepository.CreateMessage(&message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": message})
}

// MarkRead marks every message from other senders in the conversation as
// read, in one statement.
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireParticipant(conversationID, currentUserID); err != nil {
		return err
	}

	if err := h.conversationRepository.MarkConversationRead(conversationID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Conversation marked as read"})
}

// EditMessage edits a sent message. Only the sender may edit; the edit
// timestamp is recorded.
func (h *ConversationHandler) EditMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	messageID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.conversationRepository.GetMessageByID(messageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	if message.SenderID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own messages")
	}

	now := time.Now()
	message.Content = req.Content
	message.EditedAt = &now
	if err := h.conversationRepository.UpdateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": message})
}

// DeleteMessage removes a sent message. Only the sender may delete; replies
// pointing at it keep existing with their reference cleared.
func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	messageID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	message, err := h.conversationRepository.GetMessageByID(messageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	if message.SenderID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own messages")
	}

	if err := h.conversationRepository.DeleteMessage(messageID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Message deleted"})
}

// ClearConversation deletes every message in the conversation.
func (h *ConversationHandler) ClearConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireParticipant(conversationID, currentUserID); err != nil {
		return err
	}

	if err := h.conversationRepository.ClearConversation(conversationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Conversation cleared"})
}

// LeaveConversation removes the viewer from a group conversation.
func (h *ConversationHandler) LeaveConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	conversation, err := h.conversationRepository.GetConversationByID(conversationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	if !conversation.IsGroup {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot leave a direct conversation")
	}
	if err := h.requireParticipant(conversationID, currentUserID); err != nil {
		return err
	}

	if err := h.conversationRepository.RemoveParticipant(conversationID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Left conversation"})
}
