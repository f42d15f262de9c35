package models

import "time"

// Story types.
const (
	StoryTypeText  = "text"
	StoryTypeImage = "image"
	StoryTypeVideo = "video"
)

// StoryTTL is the default visibility window of a story.
const StoryTTL = 24 * time.Hour

// Story is ephemeral content. Expiry is query-time filtering; rows past
// ExpiresAt simply stop appearing, no reaper deletes them.
type Story struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index"`
	StoryType       string    `json:"story_type" gorm:"size:10;default:'text'"`
	TextContent     string    `json:"text_content,omitempty"`
	MediaURL        string    `json:"media_url,omitempty"`
	BackgroundColor string    `json:"background_color" gorm:"size:7;default:'#ff6b35'"`
	Caption         string    `json:"caption,omitempty" gorm:"size:255"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	ExpiresAt       time.Time `json:"expires_at" gorm:"index"`
}

// IsExpired reports whether the story is past its visibility window.
func (s *Story) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StoryView records that a viewer has seen a story, unique per pair.
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	ViewerID uint      `json:"viewer_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	ViewedAt time.Time `json:"viewed_at"`
}

// CreateStoryRequest defines the request body for creating a story. Media
// arrives as a multipart file for image/video stories.
type CreateStoryRequest struct {
	StoryType       string `json:"story_type" form:"story_type" validate:"required,oneof=text image video"`
	TextContent     string `json:"text_content" form:"text_content" validate:"omitempty,max=1000"`
	BackgroundColor string `json:"background_color" form:"background_color" validate:"omitempty,hexcolor"`
	Caption         string `json:"caption" form:"caption" validate:"omitempty,max=255"`
	ExpiresAt       string `json:"expires_at" form:"expires_at" validate:"omitempty"`
}
