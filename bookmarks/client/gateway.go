package client

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/models"
)

// Gateway is the remote store contract the session store depends on. The
// bookmark service satisfies it directly; tests substitute a fake.
type Gateway interface {
	List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error)
	ListQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error)
	Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
