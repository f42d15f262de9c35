package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/cache"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/mytro-app/backend/pkg/storage"
	"gorm.io/gorm"
)

// UserHandler handles profile and user discovery HTTP requests
type UserHandler struct {
	userRepository     repositories.UserRepository
	followRepository   repositories.FollowRepository
	activityRepository repositories.ActivityRepository
	mediaStore         *storage.MediaStore
	cache              *cache.Cache
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	activityRepo repositories.ActivityRepository,
	mediaStore *storage.MediaStore,
	c *cache.Cache,
) *UserHandler {
	return &UserHandler{
		userRepository:     userRepo,
		followRepository:   followRepo,
		activityRepository: activityRepo,
		mediaStore:         mediaStore,
		cache:              c,
	}
}

// RegisterUserRoutes registers profile and discovery routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile", h.GetMyProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.POST("/profile/cover", h.UploadCover)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/suggested", h.SuggestedUsers)
	g.GET("/users/:username", h.GetProfileByUsername)
	g.GET("/activity", h.GetActivity)
}

// ProfileResponse is a user with profile and graph counters.
type ProfileResponse struct {
	User           models.User    `json:"user"`
	Profile        models.Profile `json:"profile"`
	FollowersCount int64          `json:"followers_count"`
	FollowingCount int64          `json:"following_count"`
	IsFollowing    bool           `json:"is_following"`
	IsFollowedBy   bool           `json:"is_followed_by"`
}

// GetMyProfile returns the authenticated user's profile
func (h *UserHandler) GetMyProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return h.profileResponse(c, user, currentUserID)
}

// GetProfileByUsername returns a user's profile with graph counters
func (h *UserHandler) GetProfileByUsername(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.profileResponse(c, user, currentUserID)
}

func (h *UserHandler) profileResponse(c echo.Context, user *models.User, viewerID uint) error {
	profile, err := h.userRepository.GetProfileByUserID(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, err := h.followRepository.GetFollowersCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.GetFollowingCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := ProfileResponse{
		User:           *user,
		Profile:        *profile,
		FollowersCount: followers,
		FollowingCount: following,
	}
	if viewerID != 0 && viewerID != user.ID {
		resp.IsFollowing, _ = h.followRepository.IsFollowing(viewerID, user.ID)
		resp.IsFollowedBy, _ = h.followRepository.IsFollowing(user.ID, viewerID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": resp})
}

// UpdateProfile applies a partial profile edit
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	profile, err := h.userRepository.GetProfileByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
		if err := h.userRepository.UpdateUser(user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	applyProfileEdit(profile, &req)
	if err := h.userRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Interests != nil {
		if err := h.userRepository.SetProfileInterests(profile.ID, req.Interests); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if h.activityRepository != nil {
		h.activityRepository.Record(c.Request().Context(), &models.ActivityLog{
			UserID:       currentUserID,
			Action:       "Profile updated",
			ActivityType: models.ActivityProfileUpdated,
			IPAddress:    c.RealIP(),
			UserAgent:    c.Request().UserAgent(),
		})
	}

	return h.profileResponse(c, user, currentUserID)
}

func applyProfileEdit(profile *models.Profile, req *models.UpdateProfileRequest) {
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.Location != "" {
		profile.Location = req.Location
	}
	if req.Website != "" {
		profile.Website = req.Website
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
	}
	if req.DateOfBirth != "" {
		// Format already validated by the datetime tag
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
	if req.Education != "" {
		profile.Education = req.Education
	}
	if req.Work != "" {
		profile.Work = req.Work
	}
	if req.Hometown != "" {
		profile.Hometown = req.Hometown
	}
	if req.CurrentCity != "" {
		profile.CurrentCity = req.CurrentCity
	}
	if req.RelationshipStatus != "" {
		profile.RelationshipStatus = req.RelationshipStatus
	}
	if req.LanguagesKnown != "" {
		profile.LanguagesKnown = req.LanguagesKnown
	}
}

// UploadAvatar stores a new avatar image and updates the profile
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	return h.uploadProfileImage(c, "avatar")
}

// UploadCover stores a new cover image and updates the profile
func (h *UserHandler) UploadCover(c echo.Context) error {
	return h.uploadProfileImage(c, "cover")
}

func (h *UserHandler) uploadProfileImage(c echo.Context, kind string) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing image file")
	}

	url, err := h.mediaStore.Save(file, "profile_"+kind+"s")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.userRepository.GetProfileByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if kind == "avatar" {
		profile.AvatarURL = url
	} else {
		profile.CoverURL = url
	}
	if err := h.userRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"url": url}})
}

// SearchUsers finds users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	limit := pageLimit(c, 20, 50)
	users, err := h.userRepository.SearchUsers(query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}

// SuggestedUsers returns a small random-looking set of users the viewer
// does not follow yet. Candidates come from a bounded scan (cached when
// Redis is available), never a full-table random sort.
func (h *UserHandler) SuggestedUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit := pageLimit(c, 5, 10)
	ctx := c.Request().Context()

	candidates, ok := h.cache.GetSuggestionCandidates(ctx, currentUserID)
	if !ok {
		var err error
		candidates, err = h.followRepository.SuggestCandidateIDs(currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.cache.SetSuggestionCandidates(ctx, currentUserID, candidates)
	}

	picked := h.followRepository.SampleSuggestions(candidates, limit)
	userMap, err := h.userRepository.GetUsersByIDs(picked)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	suggestions := make([]models.UserCompact, 0, len(picked))
	for _, id := range picked {
		if u, ok := userMap[id]; ok {
			suggestions = append(suggestions, u.ToCompact())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"suggestions": suggestions}})
}

// GetActivity returns the viewer's recent activity stream
func (h *UserHandler) GetActivity(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.activityRepository == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activity": []models.ActivityLog{}}})
	}

	entries, err := h.activityRepository.GetByUserID(c.Request().Context(), currentUserID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activity": entries}})
}
