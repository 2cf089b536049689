package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/linkmark/api/bookmarks/models"
	"github.com/linkmark/api/internal/database/postgres"
)

const bookmarkColumns = "id, owner_id, title, url, is_quick_access, created_at"

type postgresRepository struct {
	client *postgres.Client
	schema string
}

// NewPostgresRepository creates a repository using the default schema.
func NewPostgresRepository(client *postgres.Client) Repository {
	return &postgresRepository{client: client, schema: ""}
}

// NewPostgresRepositoryWithSchema creates a repository using a specific schema.
func NewPostgresRepositoryWithSchema(client *postgres.Client, schema string) Repository {
	return &postgresRepository{client: client, schema: schema}
}

func (r *postgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// sanitizeSearch strips the filter metacharacters % _ , ( ) from user input so
// a typed query cannot alter the shape of the ILIKE expression.
func sanitizeSearch(q string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '%', '_', ',', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(q))
}

func (r *postgresRepository) Find(ctx context.Context, ownerID uuid.UUID, page, pageSize int, query string) (*models.BookmarkPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	where := "WHERE owner_id = $1"
	args := []interface{}{ownerID}

	// A query that becomes empty after sanitization loads unfiltered.
	if sanitized := sanitizeSearch(query); sanitized != "" {
		where += " AND (title ILIKE $2 OR url ILIKE $2)"
		args = append(args, "%"+sanitized+"%")
	}

	exec := r.getExecutor(ctx)

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %sbookmarks %s", r.schemaPrefix(), where)
	var totalCount int
	if err := sqlx.GetContext(ctx, exec, &totalCount, countSQL, args...); err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM %sbookmarks %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		bookmarkColumns, r.schemaPrefix(), where, len(args)+1, len(args)+2,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	items := []models.Bookmark{}
	if err := sqlx.SelectContext(ctx, exec, &items, listSQL, args...); err != nil {
		return nil, fmt.Errorf("find bookmarks: %w", err)
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.BookmarkPage{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *postgresRepository) FindQuickAccess(ctx context.Context, ownerID uuid.UUID) ([]models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %sbookmarks
		WHERE owner_id = $1 AND is_quick_access = TRUE
		ORDER BY created_at DESC, id DESC
	`, bookmarkColumns, r.schemaPrefix())

	items := []models.Bookmark{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &items, query, ownerID); err != nil {
		return nil, fmt.Errorf("find quick access bookmarks: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) Insert(ctx context.Context, ownerID uuid.UUID, req *models.CreateRequest) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		INSERT INTO %sbookmarks (owner_id, title, url, is_quick_access)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, r.schemaPrefix(), bookmarkColumns)

	var b models.Bookmark
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &b, query,
		ownerID, strings.TrimSpace(req.Title), strings.TrimSpace(req.URL), req.IsQuickAccess)
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) Update(ctx context.Context, id, ownerID uuid.UUID, req *models.UpdateRequest) (*models.Bookmark, error) {
	sets := []string{}
	args := []interface{}{}
	argIndex := 1

	if req.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, strings.TrimSpace(*req.Title))
		argIndex++
	}
	if req.URL != nil {
		sets = append(sets, fmt.Sprintf("url = $%d", argIndex))
		args = append(args, strings.TrimSpace(*req.URL))
		argIndex++
	}
	if req.IsQuickAccess != nil {
		sets = append(sets, fmt.Sprintf("is_quick_access = $%d", argIndex))
		args = append(args, *req.IsQuickAccess)
		argIndex++
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("update bookmark: no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE %sbookmarks
		SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING %s
	`, r.schemaPrefix(), strings.Join(sets, ", "), argIndex, argIndex+1, bookmarkColumns)
	args = append(args, id, ownerID)

	var b models.Bookmark
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update bookmark: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		DELETE FROM %sbookmarks
		WHERE id = $1 AND owner_id = $2
		RETURNING %s
	`, r.schemaPrefix(), bookmarkColumns)

	var b models.Bookmark
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &b, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete bookmark: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) schemaPrefix() string {
	if r.schema == "" {
		return ""
	}
	return r.schema + "."
}
