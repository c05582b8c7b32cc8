// Post HTTP handlers.
//
// This file exposes the REST endpoints for blog posts:
//   - GET    /posts        (list, filtered + paginated, ETag support)
//   - GET    /posts/{sid}  (single post, served through the read cache)
//   - POST   /posts        (create, multipart with optional image)
//   - PUT    /posts/{sid}  (edit, multipart with optional image)
//   - DELETE /posts/{sid}  (soft delete)
//
// Handlers are transport-thin: they parse and validate input, dispatch
// commands and queries, and translate results into HTTP responses. The image
// file type gate lives here so an invalid upload is rejected before any
// command is dispatched.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/cache"
	"github.com/tbourn/go-post-service/internal/cqrs"
	"github.com/tbourn/go-post-service/internal/repo"
	"github.com/tbourn/go-post-service/internal/utils"
)

// imageFileRe accepts the only upload types the service stores. Matching is
// on the client-supplied filename, case-insensitively.
var imageFileRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|jfif)$`)

// PostReader serves single-post reads. The production implementation is
// cache.CachedPostReader; tests substitute fakes.
type PostReader interface {
	GetPost(ctx context.Context, sid string) (*cqrs.PostResponse, error)
}

// Handlers groups the HTTP endpoints for posts. It depends on the dispatch
// surface and the cached reader, keeping transport concerns separate from the
// command/query layer.
type Handlers struct {
	dispatcher cqrs.Sender
	reader     PostReader
	db         *gorm.DB // list ETag statistics
	container  string   // blob container for post images
}

// New constructs a Handlers instance bound to the given collaborators.
func New(dispatcher cqrs.Sender, reader PostReader, db *gorm.DB, container string) *Handlers {
	return &Handlers{dispatcher: dispatcher, reader: reader, db: db, container: container}
}

//
// Helpers
//

// clampPagination parses and bounds the page and pageSize query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	pageSize = utils.AtoiDefault(c.Query("pageSize"), defaultPageSize)
	return utils.ClampPage(page, pageSize, defaultPageSize, maxPageSize)
}

// readUpload extracts the optional "file" part of a multipart form. A missing
// part yields (nil, true); a filename outside the image allowlist rejects the
// request and yields ok=false.
func readUpload(c *gin.Context) (upload *cqrs.FileUpload, ok bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		// No file part present.
		return nil, true
	}

	if !imageFileRe.MatchString(fh.Filename) {
		fail(c, http.StatusBadRequest, ErrCodeInvalidFile, cqrs.FileNotValidMessage)
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable file upload")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable file upload")
		return nil, false
	}
	return &cqrs.FileUpload{Name: fh.Filename, Data: data}, true
}

// bindPostForm validates the required multipart fields shared by create and
// edit.
func bindPostForm(c *gin.Context) (name, description string, ok bool) {
	name = strings.TrimSpace(c.PostForm("name"))
	description = strings.TrimSpace(c.PostForm("description"))
	if name == "" || description == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and description are required")
		return "", "", false
	}
	return name, description, true
}

//
// Handlers
//

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts (filtered, paginated)
// @Description Returns a page of posts matching the optional free-text search. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Posts
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"posts:3:1693526400\")
// @Param       searchText     query   string  false "Case-insensitive needle matched against name and description"
// @Param       sortColumn     query   string  false "One of post_name, post_description, created_at, last_modified_at"
// @Param       sortOrder      query   string  false "desc for descending, anything else ascending"
// @Param       page           query   int     false "Page number"    minimum(1) default(1)
// @Param       pageSize       query   int     false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object} cqrs.PostListResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Unknown sort column"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	sortColumn := strings.TrimSpace(c.Query("sortColumn"))
	// An unknown sort column is a 400 regardless of conditional headers, so
	// resolve it before the ETag short-circuit.
	if _, err := cqrs.ResolveSortColumn(sortColumn); err != nil {
		failErr(c, err, ErrCodeBadRequest)
		return
	}

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.PostsStats(ctx, h.db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"posts:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	res, err := cqrs.Send[*cqrs.PostListResponse](ctx, h.dispatcher, &cqrs.ListPostsQuery{
		SearchText: strings.TrimSpace(c.Query("searchText")),
		SortColumn: sortColumn,
		SortOrder:  strings.TrimSpace(c.Query("sortOrder")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// GetPost godoc
// @ID          getPost
// @Summary     Get a post by sid
// @Description Returns one post. Reads are served through the in-process cache; a hit never touches the database.
// @Tags        Posts
// @Produce     json
//
// @Param       sid  path  string  true  "Post SID (UUID)"  format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {object} cqrs.PostResponse
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts/{sid} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	res, err := h.reader.GetPost(c.Request.Context(), c.Param("sid"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, res)
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Description Creates a post from a multipart form. The optional image must carry a jpg, jpeg, png or jfif filename.
// @Tags        Posts
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       name         formData  string  true  "Post name"
// @Param       description  formData  string  true  "Post description"
// @Param       file         formData  file    false "Image file (jpg, jpeg, png, jfif)"
//
// @Success     201  {object} cqrs.PostResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing fields or invalid file type"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	name, description, valid := bindPostForm(c)
	if !valid {
		return
	}
	upload, valid := readUpload(c)
	if !valid {
		return
	}

	res, err := cqrs.Send[*cqrs.PostResponse](c.Request.Context(), h.dispatcher, &cqrs.CreatePostCommand{
		Name:        name,
		Description: description,
		File:        upload,
		Container:   h.container,
	})
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, res)
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Edit a post
// @Description Overwrites a post's name and description; a new image replaces the stored URL.
// @Tags        Posts
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       sid          path      string  true  "Post SID (UUID)"  format(uuid)
// @Param       name         formData  string  true  "Post name"
// @Param       description  formData  string  true  "Post description"
// @Param       file         formData  file    false "Image file (jpg, jpeg, png, jfif)"
//
// @Success     200  {object} cqrs.PostResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing fields or invalid file type"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts/{sid} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	name, description, valid := bindPostForm(c)
	if !valid {
		return
	}
	upload, valid := readUpload(c)
	if !valid {
		return
	}

	res, err := cqrs.Send[*cqrs.PostResponse](c.Request.Context(), h.dispatcher, &cqrs.EditPostCommand{
		Sid:         c.Param("sid"),
		Name:        name,
		Description: description,
		File:        upload,
		Container:   h.container,
	})
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Description Soft-deletes a post. Deleting the same sid twice fails with 404.
// @Tags        Posts
// @Produce     json
//
// @Param       sid  path  string  true  "Post SID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts/{sid} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	_, err := cqrs.Send[*cqrs.DeleteResult](c.Request.Context(), h.dispatcher, &cqrs.DeletePostCommand{
		Sid: c.Param("sid"),
	})
	if err != nil {
		failErr(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}

// compile-time check that the production reader satisfies PostReader
var _ PostReader = (*cache.CachedPostReader)(nil)
