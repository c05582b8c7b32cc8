// Package repo implements the data persistence layer for the post service,
// backed by GORM. This file provides repository functions for the Post model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Soft deletion is modeled with domain.StatusDeleted rather than gorm.DeletedAt:
// every read and write path excludes the deleted status explicitly, and deleted
// rows are never physically removed.
//
// Error semantics:
//   - When a post is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the command/query layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// FindPost fetches a single post by its external sid, excluding soft-deleted
// rows. If the record does not exist (or is deleted), it returns ErrNotFound.
// On other DB errors, the raw error is returned.
func FindPost(ctx context.Context, db *gorm.DB, sid string) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).
		Where("sid = ? AND status <> ?", sid, domain.StatusDeleted).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPost inserts a new post row. Sid, Status, and timestamps must already
// be set by the caller (the create command handler owns those rules).
func InsertPost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return db.WithContext(ctx).Create(p).Error
}

// SavePost persists all fields of an existing post row.
func SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return db.WithContext(ctx).Save(p).Error
}

// searchScope returns a gorm scope applying the list predicate: soft-deleted
// rows are always excluded, and a non-empty search needle additionally
// requires a caseless match on name OR description (ANDed with the base
// predicate).
func searchScope(search string) func(*gorm.DB) *gorm.DB {
	needle := strings.TrimSpace(search)
	if needle != "" {
		// A cases.Caser may carry state, so build one per call instead of
		// sharing a package-level instance across request goroutines.
		needle = cases.Fold().String(needle)
	}
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("status <> ?", domain.StatusDeleted)
		if needle != "" {
			pat := "%" + needle + "%"
			tx = tx.Where("(lower(post_name) LIKE ? OR lower(post_description) LIKE ?)", pat, pat)
		}
		return tx
	}
}

// CountPosts returns the number of non-deleted posts matching the optional
// free-text search. On DB error, it returns the error.
func CountPosts(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Scopes(searchScope(search)).
		Count(&total).Error
	return total, err
}

// ListPostsPage returns one page of non-deleted posts matching the optional
// free-text search, ordered by sortColumn (a DB column name already resolved
// through the allowlist in the query handler, never raw user input) and
// direction. Use CountPosts to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListPostsPage(ctx context.Context, db *gorm.DB, search, sortColumn string, desc bool, offset, limit int) ([]domain.Post, error) {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	var out []domain.Post
	err := db.WithContext(ctx).
		Scopes(searchScope(search)).
		Order(sortColumn + " " + dir).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
