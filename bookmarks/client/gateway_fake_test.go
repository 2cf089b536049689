package client_test

import (
	"context"
	"sync"

	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/models"
)

type listCall struct {
	page     int
	pageSize int
	query    string
}

// fakeGateway implements client.Gateway with overridable behavior per call.
// The zero behaviors return an empty page so a store can always Load.
type fakeGateway struct {
	mu        sync.Mutex
	listCalls []listCall

	listFn        func(ctx context.Context, page, pageSize int, query string) (*models.BookmarkPage, error)
	quickAccessFn func(ctx context.Context) ([]models.Bookmark, error)
	createFn      func(ctx context.Context, req *models.CreateRequest) (*models.Bookmark, error)
	updateFn      func(ctx context.Context, id uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

func (g *fakeGateway) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
	g.mu.Lock()
	g.listCalls = append(g.listCalls, listCall{page: page, pageSize: pageSize, query: query})
	fn := g.listFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, page, pageSize, query)
	}
	return &models.BookmarkPage{Items: []models.Bookmark{}, Page: page, PageSize: pageSize, TotalPages: 1}, nil
}

func (g *fakeGateway) ListQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
	g.mu.Lock()
	fn := g.quickAccessFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return []models.Bookmark{}, nil
}

func (g *fakeGateway) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
	g.mu.Lock()
	fn := g.createFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	id, _ := uuid.NewV4()
	return &models.Bookmark{ID: id, OwnerID: ownerID, Title: req.Title, URL: req.URL, IsQuickAccess: req.IsQuickAccess}, nil
}

func (g *fakeGateway) Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
	g.mu.Lock()
	fn := g.updateFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, req)
	}
	return &models.Bookmark{ID: id, OwnerID: ownerID}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	g.mu.Lock()
	fn := g.deleteFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}
	return nil
}

func (g *fakeGateway) calls() []listCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]listCall, len(g.listCalls))
	copy(out, g.listCalls)
	return out
}

func (g *fakeGateway) setListFn(fn func(ctx context.Context, page, pageSize int, query string) (*models.BookmarkPage, error)) {
	g.mu.Lock()
	g.listFn = fn
	g.mu.Unlock()
}

// pageOf builds a BookmarkPage the way the repository would for the given
// full result set.
func pageOf(items []models.Bookmark, page, pageSize int) *models.BookmarkPage {
	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return &models.BookmarkPage{
		Items:      items[start:end],
		TotalCount: len(items),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
