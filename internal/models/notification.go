package models

import "time"

// Notification types.
const (
	NotificationTypeLike        = "like"
	NotificationTypeComment     = "comment"
	NotificationTypeCommentLike = "comment_like"
	NotificationTypeFollow      = "follow"
	NotificationTypeShare       = "share"
)

// Notification is a fan-out record of an event to one recipient. Like,
// comment-like and follow notifications mirror the existence of the causing
// row: they are deleted when the like/follow is undone.
type Notification struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Type            string    `json:"type" gorm:"size:30;index"`
	SenderID        uint      `json:"sender_id" gorm:"index"`
	RecipientID     uint      `json:"recipient_id" gorm:"index"`
	TargetPostID    *uint     `json:"target_post_id,omitempty" gorm:"index"`
	TargetCommentID *uint     `json:"target_comment_id,omitempty" gorm:"index"`
	Message         string    `json:"message"`
	IsRead          bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}
