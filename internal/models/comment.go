package models

import "time"

// Comment is a comment on a post. A comment with a non-nil ParentID is a
// reply; only one level of nesting is served (replies to replies attach to
// the top-level comment).
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	PostID    uint      `json:"post_id" gorm:"index"`
	Content   string    `json:"content" gorm:"size:1000"`
	ImageURL  string    `json:"image_url,omitempty"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CreateCommentRequest defines the request body for creating a comment.
type CreateCommentRequest struct {
	Content  string `json:"content" form:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

// UpdateCommentRequest defines the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
