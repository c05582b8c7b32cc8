// Package cqrs – CreatePost
//
// CreatePostCommand inserts a new post. The handler owns sid generation and
// the initial lifecycle state; an optional file is uploaded to blob storage
// first and its URL recorded on the row. There is no compensating cleanup if
// the insert fails after a successful upload.
package cqrs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/domain"
)

// CreatePostCommand carries the fields of a new post plus its optional image.
type CreatePostCommand struct {
	Name        string
	Description string
	File        *FileUpload
	Container   string // blob container for the image, when File is set
}

// CreatePostHandler processes CreatePostCommand.
type CreatePostHandler struct {
	DB    *gorm.DB
	Posts PostStore
	Blob  BlobUploader
}

// Handle generates a fresh sid, uploads the image when present, persists a
// new Active row with both timestamps set to the current UTC instant, and
// returns the projection. Upload failures propagate unchanged.
func (h *CreatePostHandler) Handle(ctx context.Context, cmd *CreatePostCommand) (*PostResponse, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		Sid:            uuid.NewString(),
		Name:           cmd.Name,
		Description:    cmd.Description,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		LastModifiedAt: now,
	}

	if cmd.File != nil {
		url, err := h.Blob.Upload(ctx, cmd.File.Data, cmd.File.Name, cmd.Container)
		if err != nil {
			return nil, err
		}
		post.ImageURL = &url
	}

	if err := h.Posts.InsertPost(ctx, h.DB, post); err != nil {
		return nil, err
	}
	return NewPostResponse(post), nil
}
