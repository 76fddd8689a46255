package models

import (
	"time"

	"github.com/lib/pq"
)

// Post is a content item attributed to a profile. A post must have non-empty
// content or at least one media reference; the handler enforces this before
// insert.
type Post struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	AuthorID   uint           `json:"author_id" gorm:"not null;index"`
	Content    string         `json:"content" gorm:"type:text"`
	MediaURLs  pq.StringArray `json:"media_urls" gorm:"type:text[]"`
	MediaTypes pq.StringArray `json:"media_types" gorm:"type:text[]"`
	IsPublic   bool           `json:"is_public" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

// CreatePostRequest defines the request body for creating a new post.
type CreatePostRequest struct {
	Content    string   `json:"content" validate:"omitempty,max=5000"`
	MediaURLs  []string `json:"media_urls" validate:"omitempty,dive,url"`
	MediaTypes []string `json:"media_types" validate:"omitempty,dive,oneof=image video"`
	IsPublic   *bool    `json:"is_public"`
}

// HasMedia reports whether the request carries at least one media reference.
func (r *CreatePostRequest) HasMedia() bool {
	return len(r.MediaURLs) > 0
}
