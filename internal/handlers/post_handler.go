package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/mytro-app/backend/pkg/storage"
	"gorm.io/gorm"
)

// PostHandler handles post lifecycle HTTP requests
type PostHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	activityRepository     repositories.ActivityRepository
	mediaStore             *storage.MediaStore
	presenter              *postPresenter
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	savedRepo repositories.SavedPostRepository,
	notificationRepo repositories.NotificationRepository,
	activityRepo repositories.ActivityRepository,
	mediaStore *storage.MediaStore,
) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
		activityRepository:     activityRepo,
		mediaStore:             mediaStore,
		presenter: &postPresenter{
			userRepository:      userRepo,
			postRepository:      postRepo,
			commentRepository:   commentRepo,
			likeRepository:      likeRepo,
			savedPostRepository: savedRepo,
		},
	}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/repost", h.ToggleRepost)
	g.POST("/posts/:id/share", h.SharePost)
	g.POST("/posts/:id/vote", h.VotePoll)
	g.GET("/posts/:id/poll", h.GetPollResults)
	g.GET("/users/:username/posts", h.GetUserPosts)
	g.GET("/hashtags/:tag/posts", h.GetPostsByHashtag)
}

// CreatePost creates a post from a multipart form. A post needs content,
// media or a poll; an empty submission is rejected.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := models.Post{
		AuthorID: currentUserID,
		Content:  req.Content,
		PostType: req.PostType,
		Location: req.Location,
		IsPublic: true,
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if post.PostType == "" {
		post.PostType = models.PostTypeText
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := h.mediaStore.Save(file, "posts")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		post.ImageURL = url
		post.PostType = models.PostTypeImage
	}
	if file, err := c.FormFile("video"); err == nil {
		url, err := h.mediaStore.Save(file, "posts")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		post.VideoURL = url
		post.PostType = models.PostTypeVideo
	}

	// A poll payload that does not parse to at least two options is dropped
	// rather than rejected; the post goes through without a poll.
	if req.PollOptions != "" {
		if options, err := parsePollOptions(req.PollOptions); err == nil {
			normalized, _ := json.Marshal(options)
			post.PostType = models.PostTypePoll
			post.PollOptions = string(normalized)
			post.PollMultipleChoice = req.PollMultipleChoice
			if req.PollEndDate != "" {
				if end, err := time.Parse(time.RFC3339, req.PollEndDate); err == nil {
					post.PollEndDate = &end
				}
			}
		}
	}

	if post.Content == "" && post.ImageURL == "" && post.VideoURL == "" && post.PollOptions == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post cannot be empty")
	}

	if err := h.postRepository.CreatePost(&post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.activityRepository != nil {
		h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
			UserID:       currentUserID,
			Action:       "Post created",
			ActivityType: models.ActivityPostCreated,
			IPAddress:    c.RealIP(),
			UserAgent:    c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// parsePollOptions accepts either a JSON array of labels or a plain
// comma-separated list, and requires at least two non-empty options.
func parsePollOptions(raw string) ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		options = splitAndTrim(raw, ",")
	}
	cleaned := options[:0]
	for _, opt := range options {
		if opt != "" {
			cleaned = append(cleaned, opt)
		}
	}
	if len(cleaned) < 2 {
		return nil, errors.New("poll needs at least two options")
	}
	return cleaned, nil
}

// GetPost returns a single post enriched for the viewer. Another author's
// private post is served as not found.
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !post.IsPublic && post.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	views, err := h.presenter.present(currentUserID, []models.Post{*post})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": views[0]})
}

// GetUserPosts returns one author's posts, cursor paginated.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	author, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	beforeTime, beforeID, err := decodeCursor(c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	limit := pageLimit(c, 20, 50)

	posts, err := h.postRepository.GetPostsByAuthor(author.ID, currentUserID, beforeTime, beforeID, limit)
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

// UpdatePost edits a post. Only the author may edit, and the edited content
// must be non-empty.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	post.Content = req.Content
	if req.Location != "" {
		post.Location = req.Location
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.activityRepository != nil {
		h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
			UserID:       currentUserID,
			Action:       "Post edited",
			ActivityType: models.ActivityPostEdited,
			IPAddress:    c.RealIP(),
			UserAgent:    c.Request().UserAgent(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// DeletePost removes a post and everything hanging off it. Only the author
// may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.activityRepository != nil {
		h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
			UserID:       currentUserID,
			Action:       "Post deleted",
			ActivityType: models.ActivityPostDeleted,
			IPAddress:    c.RealIP(),
			UserAgent:    c.Request().UserAgent(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}

// ToggleRepost flips the viewer's repost of a post. Reposting your own post
// is rejected.
func (h *PostHandler) ToggleRepost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.RepostRequest
	if err := c.Bind(&req); err != nil && err != echo.ErrUnsupportedMediaType {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot repost your own post")
	}

	reposted, count, err := h.postRepository.ToggleRepost(currentUserID, postID, req.QuoteText)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"reposted":     reposted,
		"repost_count": count,
	}})
}

// SharePost records a share and notifies the post author.
func (h *PostHandler) SharePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ShareRequest
	if err := c.Bind(&req); err != nil && err != echo.ErrUnsupportedMediaType {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	share := models.Share{UserID: currentUserID, PostID: post.ID, Caption: req.Caption}
	if err := h.postRepository.CreateShare(&share); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != currentUserID {
		sender, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			h.notificationRepository.CreateNotification(&models.Notification{
				Type:         models.NotificationTypeShare,
				SenderID:     currentUserID,
				RecipientID:  post.AuthorID,
				TargetPostID: &post.ID,
				Message:      sender.Username + " shared your post",
			})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": share})
}

// VotePoll records a poll vote. Voting after the poll's end date is
// rejected.
func (h *PostHandler) VotePoll(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.PollVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if !post.IsPoll() {
		return echo.NewHTTPError(http.StatusBadRequest, "Post is not a poll")
	}
	if post.PollEndDate != nil && time.Now().After(*post.PollEndDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "Poll has ended")
	}

	var options []string
	if err := json.Unmarshal([]byte(post.PollOptions), &options); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Corrupt poll options")
	}
	if req.OptionIndex < 0 || req.OptionIndex >= len(options) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid option index")
	}

	if err := h.postRepository.VotePoll(currentUserID, postID, req.OptionIndex, post.PollMultipleChoice); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.pollResultsResponse(c, post, currentUserID)
}

// GetPollResults returns per-option counts and the viewer's own votes.
func (h *PostHandler) GetPollResults(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if !post.IsPoll() {
		return echo.NewHTTPError(http.StatusBadRequest, "Post is not a poll")
	}
	return h.pollResultsResponse(c, post, currentUserID)
}

// PollOptionResult is one option's slice of a poll result payload.
type PollOptionResult struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Votes int64  `json:"votes"`
}

func (h *PostHandler) pollResultsResponse(c echo.Context, post *models.Post, viewerID uint) error {
	counts, mine, err := h.postRepository.GetPollResults(post.ID, viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var options []string
	if err := json.Unmarshal([]byte(post.PollOptions), &options); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Corrupt poll options")
	}

	var total int64
	results := make([]PollOptionResult, len(options))
	for i, label := range options {
		results[i] = PollOptionResult{Index: i, Label: label, Votes: counts[i]}
		total += counts[i]
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"post_id":         post.ID,
		"options":         results,
		"total_votes":     total,
		"my_votes":        mine,
		"multiple_choice": post.PollMultipleChoice,
		"end_date":        post.PollEndDate,
	}})
}

// GetPostsByHashtag returns recent public posts carrying the tag.
func (h *PostHandler) GetPostsByHashtag(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	limit := pageLimit(c, 20, 50)

	posts, err := h.postRepository.GetPostsByHashtag(c.Param("tag"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.present(currentUserID, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": views}})
}
