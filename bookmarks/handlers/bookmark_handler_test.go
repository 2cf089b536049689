package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	bkerrors "github.com/linkmark/api/bookmarks/errors"
	"github.com/linkmark/api/bookmarks/models"
	"github.com/linkmark/api/internal/types"
)

// fakeService implements services.Service with overridable behavior per call.
type fakeService struct {
	listFn        func(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error)
	quickAccessFn func(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error)
	createFn      func(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error)
	updateFn      func(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error)
	deleteFn      func(ctx context.Context, id, ownerID uuid.UUID) error
}

func (s *fakeService) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
	return s.listFn(ctx, ownerID, page, pageSize, query)
}

func (s *fakeService) ListQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
	return s.quickAccessFn(ctx, ownerID)
}

func (s *fakeService) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
	return s.createFn(ctx, ownerID, req)
}

func (s *fakeService) Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
	return s.updateFn(ctx, id, ownerID, req)
}

func (s *fakeService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.deleteFn(ctx, id, ownerID)
}

func setupApp(svc *fakeService, user *types.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(types.UserCtxName, *user)
		}
		return c.Next()
	})

	h := NewBookmarkHandler(svc)
	app.Get("/bookmarks", h.List)
	app.Get("/bookmarks/quick-access", h.QuickAccess)
	app.Post("/bookmarks", h.Create)
	app.Put("/bookmarks/:id", h.Update)
	app.Delete("/bookmarks/:id", h.Delete)
	return app
}

func testUser() *types.UserContext {
	return &types.UserContext{UserID: uuid.Must(uuid.NewV4()), Username: "tester"}
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestListPassesQueryParams(t *testing.T) {
	user := testUser()

	var gotPage, gotLimit int
	var gotQuery string
	svc := &fakeService{
		listFn: func(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
			require.Equal(t, user.UserID, ownerID)
			gotPage, gotLimit, gotQuery = page, pageSize, query
			return &models.BookmarkPage{Items: []models.Bookmark{}, Page: page, PageSize: pageSize, TotalPages: 1}, nil
		},
	}

	app := setupApp(svc, user)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bookmarks?page=2&limit=5&q=docs", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, 2, gotPage)
	require.Equal(t, 5, gotLimit)
	require.Equal(t, "docs", gotQuery)
}

func TestListDefaultsPageAndLimit(t *testing.T) {
	var gotPage, gotLimit int
	svc := &fakeService{
		listFn: func(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
			gotPage, gotLimit = page, pageSize
			return &models.BookmarkPage{Items: []models.Bookmark{}, Page: page, PageSize: pageSize, TotalPages: 1}, nil
		},
	}

	app := setupApp(svc, testUser())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bookmarks", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, gotPage)
	require.Equal(t, 10, gotLimit)
}

func TestListWithoutUserContextReturns401(t *testing.T) {
	app := setupApp(&fakeService{}, nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bookmarks", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListMapsTransportErrorTo503(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
			return nil, bkerrors.NewTransport(errors.New("connection refused"))
		},
	}

	app := setupApp(svc, testUser())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bookmarks", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body bkerrors.ErrorResponse
	decodeBody(t, resp, &body)
	require.Equal(t, bkerrors.CodeTransport, body.Code)
}

func TestQuickAccessReturnsItems(t *testing.T) {
	user := testUser()
	svc := &fakeService{
		quickAccessFn: func(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
			return []models.Bookmark{{ID: uuid.Must(uuid.NewV4()), OwnerID: ownerID, Title: "Docs"}}, nil
		},
	}

	app := setupApp(svc, user)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bookmarks/quick-access", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []models.Bookmark `json:"items"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Items, 1)
}

func TestCreateReturns201WithRecord(t *testing.T) {
	user := testUser()
	serverID := uuid.Must(uuid.NewV4())
	svc := &fakeService{
		createFn: func(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
			return &models.Bookmark{ID: serverID, OwnerID: ownerID, Title: req.Title, URL: req.URL}, nil
		},
	}

	app := setupApp(svc, user)
	payload, _ := json.Marshal(models.CreateRequest{Title: "Docs", URL: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/bookmarks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body models.Bookmark
	decodeBody(t, resp, &body)
	require.Equal(t, serverID, body.ID)
}

func TestCreateMapsValidationErrorTo400(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
			return nil, bkerrors.NewValidation("title is required")
		},
	}

	app := setupApp(svc, testUser())
	payload, _ := json.Marshal(models.CreateRequest{URL: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/bookmarks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRejectsMalformedID(t *testing.T) {
	app := setupApp(&fakeService{}, testUser())
	req := httptest.NewRequest(http.MethodPut, "/bookmarks/not-a-uuid", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMapsNotFoundTo404(t *testing.T) {
	svc := &fakeService{
		updateFn: func(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
			return nil, bkerrors.ErrNotFound
		},
	}

	app := setupApp(svc, testUser())
	payload, _ := json.Marshal(map[string]string{"title": "New"})
	req := httptest.NewRequest(http.MethodPut, "/bookmarks/"+uuid.Must(uuid.NewV4()).String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteReturnsSuccess(t *testing.T) {
	user := testUser()
	target := uuid.Must(uuid.NewV4())

	var gotID uuid.UUID
	svc := &fakeService{
		deleteFn: func(ctx context.Context, id, ownerID uuid.UUID) error {
			gotID = id
			return nil
		},
	}

	app := setupApp(svc, user)
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/bookmarks/"+target.String(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, target, gotID)
}
