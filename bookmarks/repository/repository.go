package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/models"
)

// Repository is the storage contract for bookmarks. All reads and writes are
// scoped to a single owner; a write that matches no owned row reports not
// found by returning a nil record.
type Repository interface {
	// Find returns one page of the owner's bookmarks ordered by creation time
	// descending, optionally filtered by a case-insensitive substring match
	// against title or url.
	Find(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error)

	// FindQuickAccess returns the owner's pinned bookmarks, newest first.
	FindQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error)

	// Insert stores a new bookmark and returns it with the server-assigned id
	// and creation timestamp.
	Insert(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error)

	// Update applies the non-nil fields of req to the owner's bookmark and
	// returns the updated record, or nil when no owned row matched.
	Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error)

	// Delete removes the owner's bookmark and returns the deleted record, or
	// nil when no owned row matched.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*models.Bookmark, error)
}
