// Package repo implements the data persistence layer for the post service,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/domain"
)

// PostsStats returns aggregate metadata for the visible (non-deleted) posts:
// the total number of rows and the maximum LastModifiedAt timestamp among
// those rows.
//
// It executes two lightweight queries against the posts table. When there are
// no visible posts, the returned count is 0 and maxModified is nil.
//
// Return values:
//   - count:       total non-deleted posts
//   - maxModified: pointer to the greatest LastModifiedAt, or nil if no rows
//   - err:         database error, if any
func PostsStats(ctx context.Context, db *gorm.DB) (count int64, maxModified *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Post{}).Where("status <> ?", domain.StatusDeleted)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest last_modified_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		LastModifiedAt time.Time
	}
	if err = q.Select("last_modified_at").Order("last_modified_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.LastModifiedAt, nil
}
