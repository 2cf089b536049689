package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/linkmark/api/bookmarks/feed"
	"github.com/linkmark/api/bookmarks/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Find(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
	args := m.Called(ctx, ownerID, page, pageSize, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookmarkPage), args.Error(1)
}

func (m *MockRepository) FindQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
	args := m.Called(ctx, id, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*models.Bookmark, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []feed.ChangeEvent
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, event feed.ChangeEvent) error {
	p.events = append(p.events, event)
	return p.err
}
