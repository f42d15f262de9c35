package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account in the identity store. Every content-bearing entity
// references exactly one User as its owner.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:150"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	DisplayName string    `json:"display_name"`
	Password    string    `json:"-"` // bcrypt hash, never serialized
	// Nullable so local accounts carry no value at all; a non-null UID is
	// unique across users.
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	Profile     *Profile  `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the author shape embedded in feed/story/message responses.
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// ToCompact converts a User into its compact representation. The avatar
// comes from the profile when it has been preloaded.
func (u *User) ToCompact() UserCompact {
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	avatar := ""
	if u.Profile != nil {
		avatar = u.Profile.AvatarURL
	}
	return UserCompact{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: name,
		AvatarURL:   avatar,
	}
}

// Profile holds the extended attributes of a user, one-to-one with User.
// It is created automatically in the same transaction as the User.
type Profile struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	UserID             uint       `json:"user_id" gorm:"uniqueIndex"`
	Bio                string     `json:"bio" gorm:"size:500"`
	AvatarURL          string     `json:"avatar_url"`
	CoverURL           string     `json:"cover_url"`
	Location           string     `json:"location" gorm:"size:100"`
	Website            string     `json:"website"`
	PhoneNumber        string     `json:"phone_number" gorm:"size:20"`
	Gender             string     `json:"gender" gorm:"size:10"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Education          string     `json:"education" gorm:"size:200"`
	Work               string     `json:"work" gorm:"size:200"`
	Hometown           string     `json:"hometown" gorm:"size:100"`
	CurrentCity        string     `json:"current_city" gorm:"size:100"`
	RelationshipStatus string     `json:"relationship_status" gorm:"size:50"`
	LanguagesKnown     string     `json:"languages_known" gorm:"size:200"` // comma separated
	Interests          []Interest `json:"interests" gorm:"many2many:profile_interests"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Interest is a tag a profile can subscribe to.
type Interest struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:100"`
	Icon string `json:"icon" gorm:"size:50"`
}

// SignupRequest defines the request body for local registration.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
}

// SignInRequest defines the request body for local authentication.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits. Empty
// fields leave the stored value untouched.
type UpdateProfileRequest struct {
	DisplayName        string   `json:"display_name" validate:"omitempty,max=100"`
	Bio                string   `json:"bio" validate:"omitempty,max=500"`
	Location           string   `json:"location" validate:"omitempty,max=100"`
	Website            string   `json:"website" validate:"omitempty,url"`
	PhoneNumber        string   `json:"phone_number" validate:"omitempty,max=20"`
	Gender             string   `json:"gender" validate:"omitempty,oneof=M F O"`
	DateOfBirth        string   `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Education          string   `json:"education" validate:"omitempty,max=200"`
	Work               string   `json:"work" validate:"omitempty,max=200"`
	Hometown           string   `json:"hometown" validate:"omitempty,max=100"`
	CurrentCity        string   `json:"current_city" validate:"omitempty,max=100"`
	RelationshipStatus string   `json:"relationship_status" validate:"omitempty,max=50"`
	LanguagesKnown     string   `json:"languages_known" validate:"omitempty,max=200"`
	Interests          []string `json:"interests" validate:"omitempty,dive,min=1,max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
