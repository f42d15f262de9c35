package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/repositories"
)

// FeedHandler serves the home timeline
type FeedHandler struct {
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	presenter        *postPresenter
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	savedRepo repositories.SavedPostRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		followRepository: followRepo,
		presenter: &postPresenter{
			userRepository:      userRepo,
			postRepository:      postRepo,
			commentRepository:   commentRepo,
			likeRepository:      likeRepo,
			savedPostRepository: savedRepo,
		},
	}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the viewer's home timeline: posts by followed users and
// the viewer themself, newest first, cursor paginated.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	beforeTime, beforeID, err := decodeCursor(c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	limit := pageLimit(c, 20, 50)

	authorIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs = append(authorIDs, currentUserID)

	posts, err := h.postRepository.GetFeedPosts(currentUserID, authorIDs, beforeTime, beforeID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.present(currentUserID, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	nextCursor := ""
	if len(posts) == limit {
		last := posts[len(posts)-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"posts":       views,
		"next_cursor": nextCursor,
	}})
}
