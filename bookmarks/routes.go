package bookmarks

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linkmark/api/bookmarks/handlers"
	"github.com/linkmark/api/internal/middleware/authjwt"
	platformconfig "github.com/linkmark/api/internal/platform/config"
	"github.com/linkmark/api/internal/types"
)

type Handlers struct {
	BookmarkHandler *handlers.BookmarkHandler
}

// RegisterRoutes wires bookmark endpoints behind JWT auth.
func RegisterRoutes(app *fiber.App, h *Handlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey:   cfg.JWT.PublicKey,
		ClaimKey:    "claim",
		UserCtxName: types.UserCtxName,
	})

	group := app.Group("/bookmarks", authMiddleware)

	group.Get("/", h.BookmarkHandler.List)
	group.Get("/quick-access", h.BookmarkHandler.QuickAccess)
	group.Post("/", h.BookmarkHandler.Create)
	group.Put("/:id", h.BookmarkHandler.Update)
	group.Delete("/:id", h.BookmarkHandler.Delete)
}
