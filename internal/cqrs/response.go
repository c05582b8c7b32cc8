// Package cqrs – response projections
//
// Handlers never return the raw domain.Post entity: they map it into
// PostResponse, the external projection that is also the value stored in the
// read-through cache. List queries wrap one page of projections in PagedView
// with full pagination metadata.
package cqrs

import "github.com/tbourn/go-post-service/internal/domain"

// PostResponse is the external projection of a post. The surrogate store key
// never appears here; the sid is the only identifier clients see.
type PostResponse struct {
	Sid         string `json:"post_sid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Name        string `json:"post_name" example:"Spring recipes"`
	Description string `json:"post_description" example:"What to cook in April"`
	ImageURL    string `json:"image_url,omitempty" example:"http://localhost:8080/blobs/post-images/abc.png"`
}

// NewPostResponse maps a domain.Post into its external projection.
func NewPostResponse(p *domain.Post) *PostResponse {
	r := &PostResponse{
		Sid:         p.Sid,
		Name:        p.Name,
		Description: p.Description,
	}
	if p.ImageURL != nil {
		r.ImageURL = *p.ImageURL
	}
	return r
}

// PagedView wraps one page of data with the pagination metadata clients need
// to render pagers: the current page, the page count, the explicit list of
// page numbers, and the total record count.
type PagedView[T any] struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	Pages        []int `json:"pages"`
	PageSize     int   `json:"page_size"`
	TotalRecords int64 `json:"total_records"`
	Data         []T   `json:"data"`
}

// PostListResponse is the wrapped result of the list query.
type PostListResponse struct {
	Posts PagedView[PostResponse] `json:"post_list"`
}
