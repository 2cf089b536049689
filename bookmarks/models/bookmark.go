package models

import (
	"strings"
	"time"

	uuid "github.com/gofrs/uuid"

	bkerrors "github.com/linkmark/api/bookmarks/errors"
)

// Bookmark is one saved link owned by a single user.
type Bookmark struct {
	ID            uuid.UUID `json:"id" db:"id"`
	OwnerID       uuid.UUID `json:"ownerId" db:"owner_id"`
	Title         string    `json:"title" db:"title"`
	URL           string    `json:"url" db:"url"`
	IsQuickAccess bool      `json:"isQuickAccess" db:"is_quick_access"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// CreateRequest is the payload for creating a bookmark.
type CreateRequest struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	IsQuickAccess bool   `json:"isQuickAccess"`
}

// Validate checks the request at the boundary. Title and URL must be non-empty
// after trimming; the URL is not checked for reachability.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return bkerrors.NewValidation("title is required")
	}
	if strings.TrimSpace(r.URL) == "" {
		return bkerrors.NewValidation("url is required")
	}
	return nil
}

// UpdateRequest is the payload for a partial bookmark update. Nil fields are
// left untouched.
type UpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	URL           *string `json:"url,omitempty"`
	IsQuickAccess *bool   `json:"isQuickAccess,omitempty"`
}

// Validate rejects empty updates and blank title/url values.
func (r *UpdateRequest) Validate() error {
	if r.Title == nil && r.URL == nil && r.IsQuickAccess == nil {
		return bkerrors.NewValidation("no fields to update")
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return bkerrors.NewValidation("title cannot be empty")
	}
	if r.URL != nil && strings.TrimSpace(*r.URL) == "" {
		return bkerrors.NewValidation("url cannot be empty")
	}
	return nil
}

// BookmarkPage is one page of a user's bookmarks plus pagination metadata.
type BookmarkPage struct {
	Items      []Bookmark `json:"items"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
