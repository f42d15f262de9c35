package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/mytro-app/backend/pkg/storage"
	"gorm.io/gorm"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	likeRepository         repositories.LikeRepository
	notificationRepository repositories.NotificationRepository
	mediaStore             *storage.MediaStore
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	notificationRepo repositories.NotificationRepository,
	mediaStore *storage.MediaStore,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		likeRepository:         likeRepo,
		notificationRepository: notificationRepo,
		mediaStore:             mediaStore,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CommentView is a comment enriched with its author, like counter and the
// viewer's like state. Replies hang off their top-level parent.
type CommentView struct {
	models.Comment
	Author    models.UserCompact `json:"author"`
	LikeCount int64              `json:"like_count"`
	IsLiked   bool               `json:"is_liked"`
	Replies   []CommentView      `json:"replies,omitempty"`
}

// CreateComment adds a comment to a post, optionally as a reply and with an
// optional image. The post author is notified.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := models.Comment{
		UserID:   currentUserID,
		PostID:   postID,
		Content:  req.Content,
		ParentID: req.ParentID,
	}
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.mediaStore.Save(file, "comments")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		comment.ImageURL = url
	}

	if err := h.commentRepository.CreateComment(&comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != currentUserID {
		sender, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			h.notificationRepository.CreateNotification(&models.Notification{
				Type:            models.NotificationTypeComment,
				SenderID:        currentUserID,
				RecipientID:     post.AuthorID,
				TargetPostID:    &post.ID,
				TargetCommentID: &comment.ID,
				Message:         sender.Username + " commented on your post",
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments returns a post's comments, oldest first, with replies nested
// one level under their top-level parent.
func (h *CommentHandler) GetComments(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(comments) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": []CommentView{}}})
	}

	commentIDs := make([]uint, len(comments))
	authorIDs := make([]uint, 0, len(comments))
	seen := make(map[uint]bool)
	for i, cm := range comments {
		commentIDs[i] = cm.ID
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			authorIDs = append(authorIDs, cm.UserID)
		}
	}

	authors, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	likeCounts, err := h.likeRepository.GetCommentLikeCountMap(commentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	liked, err := h.likeRepository.GetLikedCommentIDs(currentUserID, commentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	topLevel := make([]CommentView, 0, len(comments))
	byID := make(map[uint]int) // comment ID -> index in topLevel
	for _, cm := range comments {
		author := authors[cm.UserID]
		view := CommentView{
			Comment:   cm,
			Author:    author.ToCompact(),
			LikeCount: likeCounts[cm.ID],
			IsLiked:   liked[cm.ID],
		}
		if cm.ParentID == nil {
			byID[cm.ID] = len(topLevel)
			topLevel = append(topLevel, view)
		} else if idx, ok := byID[*cm.ParentID]; ok {
			topLevel[idx].Replies = append(topLevel[idx].Replies, view)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": topLevel}})
}

// UpdateComment edits a comment. Only the comment author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own comments")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// DeleteComment removes a comment with its replies. The comment author and
// the post author may both delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
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
	if comment.UserID != currentUserID {
		post, err := h.postRepository.GetPostByID(comment.PostID)
		if err != nil || post.AuthorID != currentUserID {
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
		}
	}

	if err := h.commentRepository.DeleteComment(commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted"})
}
