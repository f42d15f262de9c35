package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types.
const (
	ActivityLogin          = "login"
	ActivityPostCreated    = "post_created"
	ActivityPostEdited     = "post_edited"
	ActivityPostDeleted    = "post_deleted"
	ActivityProfileUpdated = "profile_updated"
	ActivityFollow         = "follow"
	ActivityUnfollow       = "unfollow"
)

// ActivityLog is an append-only audit record stored in MongoDB.
type ActivityLog struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       uint               `json:"user_id" bson:"user_id"`
	Action       string             `json:"action" bson:"action"`
	ActivityType string             `json:"activity_type" bson:"activity_type"`
	IPAddress    string             `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent    string             `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
