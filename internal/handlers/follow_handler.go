package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/cache"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// FollowHandler handles the social graph HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	moderationRepository   repositories.ModerationRepository
	notificationRepository repositories.NotificationRepository
	activityRepository     repositories.ActivityRepository
	cache                  *cache.Cache
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	moderationRepo repositories.ModerationRepository,
	notificationRepo repositories.NotificationRepository,
	activityRepo repositories.ActivityRepository,
	c *cache.Cache,
) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		moderationRepository:   moderationRepo,
		notificationRepository: notificationRepo,
		activityRepository:     activityRepo,
		cache:                  c,
	}
}

// RegisterFollowRoutes registers social graph routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.Follow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
	g.POST("/users/:id/block", h.ToggleBlock)
	g.GET("/blocked", h.GetBlockedUsers)
}

// Follow makes the viewer follow another user. Following yourself is
// rejected; following someone who blocked you (or whom you blocked) is
// rejected; an existing follow is a no-op.
func (h *FollowHandler) Follow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if blocked, _ := h.moderationRepository.IsBlocked(currentUserID, targetID); blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You have blocked this user")
	}
	if blocked, _ := h.moderationRepository.IsBlocked(targetID, currentUserID); blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot follow this user")
	}

	created, err := h.followRepository.Follow(currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if created {
		sender, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			h.notificationRepository.CreateNotification(&models.Notification{
				Type:        models.NotificationTypeFollow,
				SenderID:    currentUserID,
				RecipientID: target.ID,
				Message:     sender.Username + " started following you",
			})
		}
		h.cache.InvalidateSuggestions(c.Request().Context(), currentUserID)
		if h.activityRepository != nil {
			h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
				UserID:       currentUserID,
				Action:       "Followed " + target.Username,
				ActivityType: models.ActivityFollow,
				IPAddress:    c.RealIP(),
				UserAgent:    c.Request().UserAgent(),
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// Unfollow removes the viewer's follow of another user. Unfollowing someone
// not followed is a no-op; the follow notification is removed either way.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	removed, err := h.followRepository.Unfollow(currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if removed {
		h.notificationRepository.DeleteMirror(models.NotificationTypeFollow, currentUserID, targetID, nil, nil)
		h.cache.InvalidateSuggestions(c.Request().Context(), currentUserID)
		if h.activityRepository != nil {
			h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
				UserID:       currentUserID,
				Action:       "Unfollowed a user",
				ActivityType: models.ActivityUnfollow,
				IPAddress:    c.RealIP(),
				UserAgent:    c.Request().UserAgent(),
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowers lists the users following the given user.
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.listGraph(c, h.followRepository.GetFollowers, "followers")
}

// GetFollowing lists the users the given user follows.
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.listGraph(c, h.followRepository.GetFollowing, "following")
}

func (h *FollowHandler) listGraph(c echo.Context, fetch func(uint) ([]models.User, error), key string) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	users, err := fetch(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	compacts := make([]models.UserCompact, len(users))
	for i, u := range users {
		compacts[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{key: compacts}})
}

// ToggleBlock flips the block state toward another user. Blocking also
// severs any follow edges in both directions.
func (h *FollowHandler) ToggleBlock(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot block yourself")
	}
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	blocked, err := h.moderationRepository.ToggleBlock(currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		h.followRepository.Unfollow(currentUserID, targetID)
		h.followRepository.Unfollow(targetID, currentUserID)
		h.cache.InvalidateSuggestions(c.Request().Context(), currentUserID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": blocked}})
}

// GetBlockedUsers lists the users the viewer has blocked.
func (h *FollowHandler) GetBlockedUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ids, err := h.moderationRepository.GetBlockedIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	userMap, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	blocked := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		if u, ok := userMap[id]; ok {
			blocked = append(blocked, u.ToCompact())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": blocked}})
}
