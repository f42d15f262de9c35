package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// ModerationHandler handles report HTTP requests
type ModerationHandler struct {
	moderationRepository repositories.ModerationRepository
	userRepository       repositories.UserRepository
	postRepository       repositories.PostRepository
	commentRepository    repositories.CommentRepository
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(
	moderationRepo repositories.ModerationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
) *ModerationHandler {
	return &ModerationHandler{
		moderationRepository: moderationRepo,
		userRepository:       userRepo,
		postRepository:       postRepo,
		commentRepository:    commentRepo,
	}
}

// RegisterModerationRoutes registers report routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
	g.GET("/reports", h.GetOpenReports)
	g.POST("/reports/:id/resolve", h.ResolveReport)
}

// CreateReport files a report against a user, post or comment. At least
// one target must be named, and it must exist.
func (h *ModerationHandler) CreateReport(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ReportedUserID == nil && req.ReportedPostID == nil && req.ReportedCommentID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Report needs a target")
	}

	if req.ReportedUserID != nil {
		if _, err := h.userRepository.GetUserByID(*req.ReportedUserID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Reported user not found")
		}
	}
	if req.ReportedPostID != nil {
		if _, err := h.postRepository.GetPostByID(*req.ReportedPostID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Reported post not found")
		}
	}
	if req.ReportedCommentID != nil {
		if _, err := h.commentRepository.GetCommentByID(*req.ReportedCommentID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Reported comment not found")
		}
	}

	report := models.Report{
		ReporterID:        currentUserID,
		ReportedUserID:    req.ReportedUserID,
		ReportedPostID:    req.ReportedPostID,
		ReportedCommentID: req.ReportedCommentID,
		ReportType:        req.ReportType,
		Reason:            req.Reason,
	}
	if err := h.moderationRepository.CreateReport(&report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}

// GetOpenReports lists unresolved reports, oldest first.
func (h *ModerationHandler) GetOpenReports(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit := pageLimit(c, 20, 50)

	reports, total, err := h.moderationRepository.GetOpenReports(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"reports": reports,
		"total":   total,
		"page":    page,
	}})
}

// ResolveReport marks a report as handled.
func (h *ModerationHandler) ResolveReport(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.moderationRepository.GetReportByID(reportID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Report not found")
	}
	if err := h.moderationRepository.ResolveReport(reportID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Report resolved"})
}
