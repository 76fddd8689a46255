package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Profile is the internal user record keyed to an external identity. It is
// created exactly once per Firebase UID and mutated only by its owner. The
// UID never serializes: profiles embed into feed, post, and friend-request
// responses visible to other users.
type Profile struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	FirebaseUID   string    `json:"-" gorm:"not null;uniqueIndex"`
	Username      string    `json:"username" gorm:"not null;uniqueIndex"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url"`
	WebsiteURL    string    `json:"website_url"`
	Location      string    `json:"location"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// CreateProfileRequest defines the request body for creating a profile.
type CreateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Bio         string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

// UpdateProfileRequest defines the request body for a partial profile update.
// Pointer fields distinguish "omitted" (nil, leave untouched) from
// "explicitly cleared" (empty string).
type UpdateProfileRequest struct {
	Username      *string `json:"username" validate:"omitempty,min=3,max=30"`
	DisplayName   *string `json:"display_name" validate:"omitempty,max=50"`
	Bio           *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL     *string `json:"avatar_url" validate:"omitempty,url"`
	CoverImageURL *string `json:"cover_image_url" validate:"omitempty,url"`
	WebsiteURL    *string `json:"website_url" validate:"omitempty,url"`
	Location      *string `json:"location" validate:"omitempty,max=100"`
}

// SessionClaims are the custom claims carried by locally minted session JWTs.
type SessionClaims struct {
	FirebaseUID string `json:"firebase_uid"`
	jwt.RegisteredClaims
}

// UserSearchResult is a profile hit annotated with the caller's pairwise
// friendship state.
type UserSearchResult struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url"`
	Bio              string `json:"bio"`
	IsVerified       bool   `json:"is_verified"`
	FriendshipStatus string `json:"friendship_status"`
	FriendshipID     *uint  `json:"friendship_id"`
	IsRequester      bool   `json:"is_requester"`
}
