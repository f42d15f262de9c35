package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/cache"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	cache                  *cache.Cache
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	c *cache.Cache,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notificationRepo,
		userRepository:         userRepo,
		cache:                  c,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.POST("/notifications/read-all", h.MarkAllAsRead)
}

// NotificationView is a notification enriched with its sender.
type NotificationView struct {
	models.Notification
	Sender models.UserCompact `json:"sender"`
}

// GetNotifications returns the viewer's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit := pageLimit(c, 20, 50)

	notifications, total, err := h.notificationRepository.GetByRecipientID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	senderIDs := make([]uint, 0, len(notifications))
	seen := make(map[uint]bool)
	for _, n := range notifications {
		if !seen[n.SenderID] {
			seen[n.SenderID] = true
			senderIDs = append(senderIDs, n.SenderID)
		}
	}
	senders, err := h.userRepository.GetUsersByIDs(senderIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]NotificationView, len(notifications))
	for i, n := range notifications {
		sender := senders[n.SenderID]
		views[i] = NotificationView{Notification: n, Sender: sender.ToCompact()}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"notifications": views,
		"total":         total,
		"page":          page,
	}})
}

// GetUnreadCount returns the number of unread notifications, served from
// the short-lived cache when possible.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	ctx := c.Request().Context()

	count, ok := h.cache.GetUnreadNotificationCount(ctx, currentUserID)
	if !ok {
		var err error
		count, err = h.notificationRepository.GetUnreadCount(currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.cache.SetUnreadNotificationCount(ctx, currentUserID, count)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread_count": count}})
}

// MarkAsRead marks one of the viewer's notifications as read.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAsRead(currentUserID, notificationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.InvalidateUnreadNotifications(c.Request().Context(), currentUserID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the viewer as read, in
// one statement.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.InvalidateUnreadNotifications(c.Request().Context(), currentUserID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All notifications marked as read"})
}
