// Package cqrs – ListPosts
//
// The list query applies the visibility predicate (deleted rows excluded),
// an optional free-text search over name and description, allowlist-resolved
// sorting, and pagination with full metadata.
package cqrs

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/utils"
)

// SortOrderDesc is the only sort order value (compared case-insensitively)
// that produces a descending sort; anything else sorts ascending.
const SortOrderDesc = "desc"

// defaultSortColumn orders lists by recency of modification when the caller
// does not name a column.
const defaultSortColumn = "last_modified_at"

// sortColumns is the closed allowlist from external sort-column names to DB
// columns. Names outside this map are rejected with BadRequest instead of
// being resolved dynamically or silently defaulted.
var sortColumns = map[string]string{
	"post_name":        "post_name",
	"post_description": "post_description",
	"created_at":       "created_at",
	"last_modified_at": "last_modified_at",
}

// ListPostsQuery retrieves a filtered, sorted page of post projections.
type ListPostsQuery struct {
	SearchText string
	SortColumn string
	SortOrder  string
	Page       int
	PageSize   int
}

// ListPostsHandler processes ListPostsQuery.
type ListPostsHandler struct {
	DB    *gorm.DB
	Posts PostStore

	// DefaultPageSize and MaxPageSize bound the page size; zero values fall
	// back to 20 and 100.
	DefaultPageSize int
	MaxPageSize     int
}

// ResolveSortColumn maps an external sort-column name onto its DB column. An
// empty name falls back to last_modified_at; an unrecognized one is a
// BadRequest failure.
func ResolveSortColumn(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return defaultSortColumn, nil
	}
	col, ok := sortColumns[name]
	if !ok {
		return "", BadRequest("unknown sort column: " + name)
	}
	return col, nil
}

// Handle counts the matching rows, fetches the requested page, and wraps it
// in the paginated list response. The empty result is a valid page with an
// empty (non-nil) data slice.
func (h *ListPostsHandler) Handle(ctx context.Context, q *ListPostsQuery) (*PostListResponse, error) {
	sortCol, err := ResolveSortColumn(q.SortColumn)
	if err != nil {
		return nil, err
	}
	desc := strings.EqualFold(q.SortOrder, SortOrderDesc)

	defSize := h.DefaultPageSize
	if defSize <= 0 {
		defSize = 20
	}
	maxSize := h.MaxPageSize
	if maxSize <= 0 {
		maxSize = 100
	}
	page, pageSize := utils.ClampPage(q.Page, q.PageSize, defSize, maxSize)

	total, err := h.Posts.CountPosts(ctx, h.DB, q.SearchText)
	if err != nil {
		return nil, err
	}

	data := make([]PostResponse, 0, pageSize)
	if total > 0 {
		rows, err := h.Posts.ListPostsPage(ctx, h.DB, q.SearchText, sortCol, desc, (page-1)*pageSize, pageSize)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			data = append(data, *NewPostResponse(&rows[i]))
		}
	}

	totalPages := utils.TotalPages(total, pageSize)
	return &PostListResponse{
		Posts: PagedView[PostResponse]{
			CurrentPage:  page,
			TotalPages:   totalPages,
			Pages:        utils.PageNumbers(totalPages),
			PageSize:     pageSize,
			TotalRecords: total,
			Data:         data,
		},
	}, nil
}
