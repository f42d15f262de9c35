package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// LikeHandler handles post and comment like toggles
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	commentRepository      repositories.CommentRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		commentRepository:      commentRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterLikeRoutes registers like routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.TogglePostLike)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// TogglePostLike flips the viewer's like on a post. Liking creates a
// notification for the author, unliking removes it; users never get
// notified about their own likes.
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, count, err := h.likeRepository.ToggleLike(currentUserID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != currentUserID {
		if liked {
			sender, err := h.userRepository.GetUserByID(currentUserID)
			if err == nil {
				h.notificationRepository.CreateNotification(&models.Notification{
					Type:         models.NotificationTypeLike,
					SenderID:     currentUserID,
					RecipientID:  post.AuthorID,
					TargetPostID: &post.ID,
					Message:      sender.Username + " liked your post",
				})
			}
		} else {
			h.notificationRepository.DeleteMirror(models.NotificationTypeLike, currentUserID, post.AuthorID, &post.ID, nil)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"liked":      liked,
		"like_count": count,
	}})
}

// ToggleCommentLike flips the viewer's like on a comment, mirroring the
// notification the same way post likes do.
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	liked, count, err := h.likeRepository.ToggleCommentLike(currentUserID, commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentUserID {
		if liked {
			sender, err := h.userRepository.GetUserByID(currentUserID)
			if err == nil {
				h.notificationRepository.CreateNotification(&models.Notification{
					Type:            models.NotificationTypeCommentLike,
					SenderID:        currentUserID,
					RecipientID:     comment.UserID,
					TargetPostID:    &comment.PostID,
					TargetCommentID: &comment.ID,
					Message:         sender.Username + " liked your comment",
				})
			}
		} else {
			h.notificationRepository.DeleteMirror(models.NotificationTypeCommentLike, currentUserID, comment.UserID, nil, &comment.ID)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"liked":      liked,
		"like_count": count,
	}})
}
