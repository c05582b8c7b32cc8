// Package cqrs – EditPost
package cqrs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EditPostCommand overwrites the mutable fields of an existing post. A new
// file, when supplied, replaces the recorded image URL; the previous blob is
// not deleted.
type EditPostCommand struct {
	Sid         string
	Name        string
	Description string
	File        *FileUpload
	Container   string
}

// EditPostHandler processes EditPostCommand.
type EditPostHandler struct {
	DB    *gorm.DB
	Posts PostStore
	Blob  BlobUploader
}

// Handle looks up the post by sid (soft-deleted rows are invisible and yield
// NotFound), overwrites name and description, bumps LastModifiedAt, uploads
// and records a new image when one was supplied, persists, and returns the
// projection.
func (h *EditPostHandler) Handle(ctx context.Context, cmd *EditPostCommand) (*PostResponse, error) {
	post, err := h.Posts.FindPost(ctx, h.DB, cmd.Sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(PostNotFoundMessage)
		}
		return nil, err
	}

	post.Name = cmd.Name
	post.Description = cmd.Description
	post.LastModifiedAt = time.Now().UTC()

	if cmd.File != nil {
		url, err := h.Blob.Upload(ctx, cmd.File.Data, cmd.File.Name, cmd.Container)
		if err != nil {
			return nil, err
		}
		post.ImageURL = &url
	}

	if err := h.Posts.SavePost(ctx, h.DB, post); err != nil {
		return nil, err
	}
	return NewPostResponse(post), nil
}
