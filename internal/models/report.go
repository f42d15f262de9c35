package models

import "time"

// Report types.
const (
	ReportTypeSpam          = "spam"
	ReportTypeHarassment    = "harassment"
	ReportTypeInappropriate = "inappropriate"
	ReportTypeViolence      = "violence"
	ReportTypeHateSpeech    = "hate_speech"
	ReportTypeOther         = "other"
)

// Report is a moderation report against a user, post or comment. At least
// one target must be set.
type Report struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	ReporterID        uint       `json:"reporter_id" gorm:"index"`
	ReportedUserID    *uint      `json:"reported_user_id,omitempty" gorm:"index"`
	ReportedPostID    *uint      `json:"reported_post_id,omitempty" gorm:"index"`
	ReportedCommentID *uint      `json:"reported_comment_id,omitempty" gorm:"index"`
	ReportType        string     `json:"report_type" gorm:"size:20;default:'other'"`
	Reason            string     `json:"reason"`
	IsResolved        bool       `json:"is_resolved" gorm:"default:false;index"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateReportRequest defines the request body for filing a report.
type CreateReportRequest struct {
	ReportedUserID    *uint  `json:"reported_user_id"`
	ReportedPostID    *uint  `json:"reported_post_id"`
	ReportedCommentID *uint  `json:"reported_comment_id"`
	ReportType        string `json:"report_type" validate:"required,oneof=spam harassment inappropriate violence hate_speech other"`
	Reason            string `json:"reason" validate:"required,min=1"`
}
