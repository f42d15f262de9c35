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

// StoryHandler handles ephemeral story HTTP requests
type StoryHandler struct {
	storyRepository  repositories.StoryRepository
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	mediaStore       *storage.MediaStore
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(
	storyRepo repositories.StoryRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	mediaStore *storage.MediaStore,
) *StoryHandler {
	return &StoryHandler{
		storyRepository:  storyRepo,
		followRepository: followRepo,
		userRepository:   userRepo,
		mediaStore:       mediaStore,
	}
}

// RegisterStoryRoutes registers story routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.POST("/stories/:id/view", h.ViewStory)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// StoryView is a story enriched with the viewer's seen state.
type StoryView struct {
	models.Story
	Seen      bool  `json:"seen"`
	ViewCount int64 `json:"view_count,omitempty"`
}

// UserStories groups one author's active stories for the tray.
type UserStories struct {
	Author  models.UserCompact `json:"author"`
	Stories []StoryView        `json:"stories"`
	AllSeen bool               `json:"all_seen"`
}

// CreateStory publishes a story. Image and video stories carry a multipart
// media file; text stories need text content. Expiry defaults to 24 hours.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	story := models.Story{
		UserID:      currentUserID,
		StoryType:   req.StoryType,
		TextContent: req.TextContent,
		Caption:     req.Caption,
	}
	if req.BackgroundColor != "" {
		story.BackgroundColor = req.BackgroundColor
	}

	if req.StoryType == models.StoryTypeText {
		if req.TextContent == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Text story needs text content")
		}
	} else {
		file, err := c.FormFile("media")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing media file")
		}
		url, err := h.mediaStore.Save(file, "stories")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		story.MediaURL = url
	}

	if req.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid expiry time")
		}
		now := time.Now()
		if !expires.After(now) || expires.After(now.Add(models.StoryTTL)) {
			return echo.NewHTTPError(http.StatusBadRequest, "Expiry must fall within the next 24 hours")
		}
		story.ExpiresAt = expires
	}

	if err := h.storyRepository.CreateStory(&story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": story})
}

// GetStories returns the story tray: active stories of followed users and
// the viewer, grouped per author, with the viewer's seen state.
func (h *StoryHandler) GetStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs = append(authorIDs, currentUserID)

	stories, err := h.storyRepository.GetActiveStoriesByUsers(authorIDs, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(stories) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
			"my_stories": []StoryView{},
			"stories":    []UserStories{},
		}})
	}

	storyIDs := make([]uint, len(stories))
	for i, s := range stories {
		storyIDs[i] = s.ID
	}
	seen, err := h.storyRepository.GetViewedStoryIDs(currentUserID, storyIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ownerIDs := make([]uint, 0)
	owners := make(map[uint]bool)
	for _, s := range stories {
		if !owners[s.UserID] {
			owners[s.UserID] = true
			ownerIDs = append(ownerIDs, s.UserID)
		}
	}
	authors, err := h.userRepository.GetUsersByIDs(ownerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Own stories leave the tray and come back in their own slot, with view
	// counts only the owner gets to see.
	myStories := make([]StoryView, 0)
	grouped := make([]UserStories, 0, len(ownerIDs))
	index := make(map[uint]int)
	for _, s := range stories {
		view := StoryView{Story: s, Seen: seen[s.ID]}
		if s.UserID == currentUserID {
			view.ViewCount, _ = h.storyRepository.GetViewCount(s.ID)
			myStories = append(myStories, view)
			continue
		}
		idx, ok := index[s.UserID]
		if !ok {
			author := authors[s.UserID]
			idx = len(grouped)
			index[s.UserID] = idx
			grouped = append(grouped, UserStories{Author: author.ToCompact(), AllSeen: true})
		}
		if !view.Seen {
			grouped[idx].AllSeen = false
		}
		grouped[idx].Stories = append(grouped[idx].Stories, view)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"my_stories": myStories,
		"stories":    grouped,
	}})
}

// ViewStory records that the viewer has seen a story. Repeat views are
// no-ops; expired stories are served as not found.
func (h *StoryHandler) ViewStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if story.IsExpired(time.Now()) {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	if err := h.storyRepository.MarkViewed(storyID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Story viewed"})
}

// DeleteStory removes a story before its expiry. Only the author may
// delete.
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if story.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own stories")
	}

	if err := h.storyRepository.DeleteStory(storyID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Story deleted"})
}
