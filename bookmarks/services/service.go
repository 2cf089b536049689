package services

import (
	"context"
	"fmt"

	uuid "github.com/gofrs/uuid"

	bkerrors "github.com/linkmark/api/bookmarks/errors"
	"github.com/linkmark/api/bookmarks/feed"
	"github.com/linkmark/api/bookmarks/models"
	"github.com/linkmark/api/bookmarks/repository"
	"github.com/linkmark/api/internal/pkg/log"
)

// Service defines the remote store gateway operations for bookmarks.
type Service interface {
	// List returns one page of the owner's bookmarks, optionally filtered by a
	// case-insensitive substring match on title or url.
	List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error)

	// ListQuickAccess returns the owner's pinned bookmarks, newest first.
	ListQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error)

	// Create stores a new bookmark and returns the authoritative record.
	Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error)

	// Update applies a partial update to an owned bookmark.
	Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error)

	// Delete removes an owned bookmark.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type service struct {
	repo      repository.Repository
	publisher feed.Publisher
}

// NewService constructs a bookmark service. The publisher may be nil, in which
// case no change events are emitted.
func NewService(repo repository.Repository, publisher feed.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
	if ownerID == uuid.Nil {
		return nil, bkerrors.ErrUnauthorized
	}

	result, err := s.repo.Find(ctx, ownerID, page, pageSize, query)
	if err != nil {
		return nil, bkerrors.NewTransport(err)
	}

	return result, nil
}

func (s *service) ListQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
	if ownerID == uuid.Nil {
		return nil, bkerrors.ErrUnauthorized
	}

	items, err := s.repo.FindQuickAccess(ctx, ownerID)
	if err != nil {
		return nil, bkerrors.NewTransport(err)
	}

	return items, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
	if ownerID == uuid.Nil {
		return nil, bkerrors.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.Insert(ctx, ownerID, req)
	if err != nil {
		return nil, bkerrors.NewTransport(err)
	}

	s.publish(ctx, feed.ChangeEvent{Op: feed.OpInsert, Record: *record})
	return record, nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
	if ownerID == uuid.Nil {
		return nil, bkerrors.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.Update(ctx, id, ownerID, req)
	if err != nil {
		return nil, bkerrors.NewTransport(err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", bkerrors.ErrNotFound, id)
	}

	s.publish(ctx, feed.ChangeEvent{Op: feed.OpUpdate, Record: *record})
	return record, nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return bkerrors.ErrUnauthorized
	}

	record, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return bkerrors.NewTransport(err)
	}
	if record == nil {
		return fmt.Errorf("%w: %s", bkerrors.ErrNotFound, id)
	}

	s.publish(ctx, feed.ChangeEvent{Op: feed.OpDelete, Record: *record})
	return nil
}

// publish is best-effort: the write already committed, so a feed failure is
// logged rather than propagated.
func (s *service) publish(ctx context.Context, event feed.ChangeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WarnWithContext(ctx, "failed to publish %s event for bookmark %s: %v", event.Op, event.Record.ID, err)
	}
}
