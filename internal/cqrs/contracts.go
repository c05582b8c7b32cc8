// Package cqrs – collaborator contracts
//
// Handlers depend on narrow interfaces rather than concrete packages: a
// PostStore for persistence and a BlobUploader for image storage. The router
// adapts the repo free functions and the blob package to these contracts.
package cqrs

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/domain"
)

// PostStore defines the persistence contract required by the command and
// query handlers. All lookups exclude soft-deleted rows.
type PostStore interface {
	// FindPost fetches a post by sid, excluding deleted rows.
	FindPost(ctx context.Context, db *gorm.DB, sid string) (*domain.Post, error)

	// InsertPost inserts a fully populated new row.
	InsertPost(ctx context.Context, db *gorm.DB, p *domain.Post) error

	// SavePost persists all fields of an existing row.
	SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error

	// CountPosts returns the total of non-deleted rows matching the search.
	CountPosts(ctx context.Context, db *gorm.DB, search string) (int64, error)

	// ListPostsPage returns one sorted page of non-deleted rows.
	ListPostsPage(ctx context.Context, db *gorm.DB, search, sortColumn string, desc bool, offset, limit int) ([]domain.Post, error)
}

// FileUpload carries an uploaded file through a command: its original client
// filename (used only for the extension) and its content.
type FileUpload struct {
	Name string
	Data []byte
}

// BlobUploader stores an uploaded file in the named container and returns its
// public URL. Blob names are generated by the implementation and are
// collision-free by construction.
type BlobUploader interface {
	Upload(ctx context.Context, data []byte, origName, container string) (string, error)
}
