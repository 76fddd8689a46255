package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus is the state of a pairwise relationship row.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a single relationship record between two profiles. Besides
// the directed requester/addressee columns it stores the canonical ordered
// pair (PairLoID < PairHiID) under a composite unique index, so at most one
// row can ever exist per unordered pair regardless of request direction —
// concurrent duplicate requests lose at the index, not at an application
// pre-check. Rejection and unfriending delete the row outright; there is no
// terminal "rejected" state.
type Friendship struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RequesterID uint             `json:"requester_id" gorm:"not null;index"`
	AddresseeID uint             `json:"addressee_id" gorm:"not null;index"`
	PairLoID    uint             `json:"-" gorm:"not null;uniqueIndex:idx_friendship_pair"`
	PairHiID    uint             `json:"-" gorm:"not null;uniqueIndex:idx_friendship_pair"`
	Status      FriendshipStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Requester *Profile `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Addressee *Profile `json:"addressee,omitempty" gorm:"foreignKey:AddresseeID"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate derives the canonical pair columns from the directed ones.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.RequesterID == f.AddresseeID {
		return fmt.Errorf("requester and addressee must differ")
	}
	f.PairLoID, f.PairHiID = f.RequesterID, f.AddresseeID
	if f.PairLoID > f.PairHiID {
		f.PairLoID, f.PairHiID = f.PairHiID, f.PairLoID
	}
	return nil
}

// Involves reports whether the given profile is a party to this row.
func (f *Friendship) Involves(profileID uint) bool {
	return f.RequesterID == profileID || f.AddresseeID == profileID
}

// OtherPartyID returns the profile on the other side of the row.
func (f *Friendship) OtherPartyID(profileID uint) uint {
	if f.RequesterID == profileID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// OtherParty returns the preloaded profile on the other side of the row, or
// nil when the association was not loaded.
func (f *Friendship) OtherParty(profileID uint) *Profile {
	if f.RequesterID == profileID {
		return f.Addressee
	}
	return f.Requester
}

// CanAccept validates the pending -> accepted transition.
func (f *Friendship) CanAccept() error {
	if f.Status != FriendshipStatusPending {
		return fmt.Errorf("friendship is %s, not pending", f.Status)
	}
	return nil
}

// CanReject validates the pending -> deleted transition.
func (f *Friendship) CanReject() error {
	if f.Status != FriendshipStatusPending {
		return fmt.Errorf("friendship is %s, not pending", f.Status)
	}
	return nil
}

// CreateFriendRequest defines the request body for sending a friend request.
type CreateFriendRequest struct {
	AddresseeID uint `json:"addressee_id" validate:"required"`
}

// FriendshipActionRequest defines the request body for accepting or
// rejecting a friend request.
type FriendshipActionRequest struct {
	FriendshipID uint `json:"friendship_id" validate:"required"`
}

// FriendSummary is one accepted friendship mapped to "the other party".
// FriendsSince is the creation time of the original request, not the
// acceptance time.
type FriendSummary struct {
	FriendshipID uint      `json:"friendship_id"`
	FriendID     uint      `json:"friend_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url"`
	IsVerified   bool      `json:"is_verified"`
	FriendsSince time.Time `json:"friends_since"`
}
