// Package cqrs – GetPostByID
package cqrs

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GetPostByIDQuery retrieves a single post projection by sid. It is a pure
// read: no store mutation, no cache interaction (the cache-aware path lives
// in the cache package and wraps this query).
type GetPostByIDQuery struct {
	Sid string
}

// GetPostByIDHandler processes GetPostByIDQuery.
type GetPostByIDHandler struct {
	DB    *gorm.DB
	Posts PostStore
}

// Handle resolves the sid excluding soft-deleted rows and maps the row to its
// projection. An absent or deleted sid yields NotFound.
func (h *GetPostByIDHandler) Handle(ctx context.Context, q *GetPostByIDQuery) (*PostResponse, error) {
	post, err := h.Posts.FindPost(ctx, h.DB, q.Sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(PostNotFoundMessage)
		}
		return nil, err
	}
	return NewPostResponse(post), nil
}
