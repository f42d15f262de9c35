package models

import "time"

// Post types mirror the allowed values of Post.PostType.
const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeVideo = "video"
	PostTypePoll  = "poll"
)

// Post is a feed entry. A post with a non-nil RepostParentID is a repost;
// repost chains are flat, a repost of a repost points at the original.
type Post struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	AuthorID           uint       `json:"author_id" gorm:"index;uniqueIndex:idx_author_repost"`
	Content            string     `json:"content" gorm:"size:5000"`
	PostType           string     `json:"post_type" gorm:"size:10;default:'text'"`
	ImageURL           string     `json:"image_url,omitempty"`
	VideoURL           string     `json:"video_url,omitempty"`
	Location           string     `json:"location,omitempty" gorm:"size:255"`
	// No column default: the handler decides visibility so a stored false
	// is never rewritten to true on insert.
	IsPublic           bool       `json:"is_public"`
	RepostParentID     *uint      `json:"repost_parent_id,omitempty" gorm:"index;uniqueIndex:idx_author_repost"`
	IsQuote            bool       `json:"is_quote"`
	QuoteText          string     `json:"quote_text,omitempty" gorm:"size:1000"`
	PollOptions        string     `json:"poll_options,omitempty"` // JSON array of option labels
	PollMultipleChoice bool       `json:"poll_multiple_choice"`
	PollEndDate        *time.Time `json:"poll_end_date,omitempty"`
	Hashtags           []Hashtag  `json:"hashtags,omitempty" gorm:"many2many:post_hashtags"`
	CreatedAt          time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsPoll reports whether the post carries a poll payload.
func (p *Post) IsPoll() bool {
	return p.PostType == PostTypePoll && p.PollOptions != ""
}

// Hashtag is a unique tag extracted from post content.
type Hashtag struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"uniqueIndex;size:100"`
	UsageCount uint      `json:"usage_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
}

// Share records a user sharing a post, with an optional caption.
type Share struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	PostID    uint      `json:"post_id" gorm:"index"`
	Caption   string    `json:"caption" gorm:"size:1000"`
	CreatedAt time.Time `json:"created_at"`
}

// PollVote is one user's vote for one option of a poll post.
type PollVote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_poll_vote"`
	PostID      uint      `json:"post_id" gorm:"index;uniqueIndex:idx_poll_vote"`
	OptionIndex int       `json:"option_index" gorm:"uniqueIndex:idx_poll_vote"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a post. Media
// arrives as multipart files, not in this payload.
type CreatePostRequest struct {
	Content            string   `json:"content" form:"content" validate:"omitempty,max=5000"`
	PostType           string   `json:"post_type" form:"post_type" validate:"omitempty,oneof=text image video poll"`
	Location           string   `json:"location" form:"location" validate:"omitempty,max=255"`
	IsPublic           *bool    `json:"is_public" form:"is_public"`
	QuoteText          string   `json:"quote_text" form:"quote_text" validate:"omitempty,max=1000"`
	PollOptions        string   `json:"poll_options" form:"poll_options"`
	PollMultipleChoice bool     `json:"poll_multiple_choice" form:"poll_multiple_choice"`
	PollEndDate        string   `json:"poll_end_date" form:"poll_end_date" validate:"omitempty"`
}

// UpdatePostRequest defines the request body for editing a post.
type UpdatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	Location string `json:"location" validate:"omitempty,max=255"`
	IsPublic *bool  `json:"is_public"`
}

// RepostRequest defines the optional quote payload of a repost toggle.
type RepostRequest struct {
	QuoteText string `json:"quote_text" validate:"omitempty,max=1000"`
}

// ShareRequest defines the request body for sharing a post.
type ShareRequest struct {
	Caption string `json:"caption" validate:"omitempty,max=1000"`
}

// PollVoteRequest defines the request body for voting on a poll.
type PollVoteRequest struct {
	OptionIndex int `json:"option_index" validate:"min=0"`
}
