// Package cqrs – DeletePost
package cqrs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/domain"
)

// DeletePostCommand soft-deletes a post by sid. Delete is deliberately not
// idempotent: an already-deleted (or unknown) sid fails with NotFound.
type DeletePostCommand struct {
	Sid string
}

// DeleteResult is the empty success payload of a delete. Success is signaled
// solely by the absence of failure.
type DeleteResult struct{}

// DeletePostHandler processes DeletePostCommand.
type DeletePostHandler struct {
	DB    *gorm.DB
	Posts PostStore
}

// Handle looks up the post excluding already-deleted rows, marks it deleted,
// bumps LastModifiedAt, and persists. The row is never physically removed.
func (h *DeletePostHandler) Handle(ctx context.Context, cmd *DeletePostCommand) (*DeleteResult, error) {
	post, err := h.Posts.FindPost(ctx, h.DB, cmd.Sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(PostNotFoundMessage)
		}
		return nil, err
	}

	post.Status = domain.StatusDeleted
	post.LastModifiedAt = time.Now().UTC()

	if err := h.Posts.SavePost(ctx, h.DB, post); err != nil {
		return nil, err
	}
	return &DeleteResult{}, nil
}
