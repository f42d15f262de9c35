package models

import "time"

// SavedPost is a bookmarked post, unique per (user, post).
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	Folder    string    `json:"folder" gorm:"size:100;default:'General'"`
	CreatedAt time.Time `json:"created_at"`
}
