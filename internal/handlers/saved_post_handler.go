package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// SavedPostHandler handles bookmark HTTP requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	postRepository      repositories.PostRepository
	presenter           *postPresenter
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(
	savedRepo repositories.SavedPostRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedRepo,
		postRepository:      postRepo,
		presenter: &postPresenter{
			userRepository:      userRepo,
			postRepository:      postRepo,
			commentRepository:   commentRepo,
			likeRepository:      likeRepo,
			savedPostRepository: savedRepo,
		},
	}
}

// RegisterSavedPostRoutes registers bookmark routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.ToggleSave)
	g.GET("/saved-posts", h.GetSavedPosts)
}

// ToggleSave flips the viewer's bookmark on a post, with an optional folder
// name.
func (h *SavedPostHandler) ToggleSave(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	var req struct {
		Folder string `json:"folder"`
	}
	if err := c.Bind(&req); err != nil && err != echo.ErrUnsupportedMediaType {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	saved, err := h.savedPostRepository.ToggleSave(currentUserID, postID, req.Folder)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": saved}})
}

// GetSavedPosts returns the viewer's bookmarks, newest first, each with its
// folder and the enriched post.
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	entries, err := h.savedPostRepository.GetSavedPostsByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts := make([]models.Post, 0, len(entries))
	folders := make(map[uint]string, len(entries))
	for _, entry := range entries {
		post, err := h.postRepository.GetPostByID(entry.PostID)
		if err != nil {
			continue
		}
		posts = append(posts, *post)
		folders[post.ID] = entry.Folder
	}

	views, err := h.presenter.present(currentUserID, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type savedView struct {
		Folder string   `json:"folder"`
		Post   PostView `json:"post"`
	}
	result := make([]savedView, len(views))
	for i, v := range views {
		result[i] = savedView{Folder: folders[v.ID], Post: v}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved_posts": result}})
}
