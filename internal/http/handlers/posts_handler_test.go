package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-post-service/internal/cache"
	"github.com/tbourn/go-post-service/internal/cqrs"
	"github.com/tbourn/go-post-service/internal/domain"
	"github.com/tbourn/go-post-service/internal/repo"
)

// ---------- test fixture ----------

type handlerPostStore struct{}

func (handlerPostStore) FindPost(ctx context.Context, db *gorm.DB, sid string) (*domain.Post, error) {
	return repo.FindPost(ctx, db, sid)
}

func (handlerPostStore) InsertPost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.InsertPost(ctx, db, p)
}

func (handlerPostStore) SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.SavePost(ctx, db, p)
}

func (handlerPostStore) CountPosts(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	return repo.CountPosts(ctx, db, search)
}

func (handlerPostStore) ListPostsPage(ctx context.Context, db *gorm.DB, search, sortColumn string, desc bool, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, search, sortColumn, desc, offset, limit)
}

type recordingBlob struct {
	calls int
}

func (b *recordingBlob) Upload(_ context.Context, _ []byte, origName, container string) (string, error) {
	b.calls++
	return "http://blobs.local/" + container + "/" + origName, nil
}

// newTestServer wires the full request path: gin -> handlers -> dispatcher ->
// cqrs handlers -> in-memory sqlite, with the real read-through cache.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *recordingBlob) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Post{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	blob := &recordingBlob{}
	store := handlerPostStore{}

	d := cqrs.NewDispatcher()
	cqrs.MustRegister(d, (&cqrs.CreatePostHandler{DB: db, Posts: store, Blob: blob}).Handle)
	cqrs.MustRegister(d, (&cqrs.EditPostHandler{DB: db, Posts: store, Blob: blob}).Handle)
	cqrs.MustRegister(d, (&cqrs.DeletePostHandler{DB: db, Posts: store}).Handle)
	cqrs.MustRegister(d, (&cqrs.GetPostByIDHandler{DB: db, Posts: store}).Handle)
	cqrs.MustRegister(d, (&cqrs.ListPostsHandler{DB: db, Posts: store}).Handle)

	reader := &cache.CachedPostReader{
		Cache:  cache.NewMemory(128, 2, time.Minute, 10),
		Sender: d,
	}

	h := New(d, reader, db, "post-images")
	r := gin.New()
	r.GET("/v2/posts", h.ListPosts)
	r.POST("/v2/posts", h.CreatePost)
	r.GET("/v2/posts/:sid", h.GetPost)
	r.PUT("/v2/posts/:sid", h.UpdatePost)
	r.DELETE("/v2/posts/:sid", h.DeletePost)
	return r, db, blob
}

// multipartBody builds a multipart form with name, description and an
// optional file part.
func multipartBody(t *testing.T, name, description, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if name != "" {
		_ = mw.WriteField("name", name)
	}
	if description != "" {
		_ = mw.WriteField("description", description)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func doCreate(t *testing.T, r *gin.Engine, name, description, filename string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, name, description, filename)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v2/posts", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	return w
}

func decodePost(t *testing.T, w *httptest.ResponseRecorder) cqrs.PostResponse {
	t.Helper()
	var res cqrs.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode post response: %v (body %s)", err, w.Body.String())
	}
	return res
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var res ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, w.Body.String())
	}
	return res
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.Post{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// ---------- create ----------

func TestCreatePost_WithImage_Returns201(t *testing.T) {
	r, _, blob := newTestServer(t)

	w := doCreate(t, r, "spring recipes", "what to cook in april", "photo.png")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	res := decodePost(t, w)
	if res.Sid == "" || res.Name != "spring recipes" {
		t.Fatalf("response = %+v", res)
	}
	if res.ImageURL == "" {
		t.Fatalf("image_url must be set after an image upload")
	}
	if blob.calls != 1 {
		t.Fatalf("blob calls = %d; want 1", blob.calls)
	}
}

func TestCreatePost_NonImageRejectedBeforeDispatch(t *testing.T) {
	r, db, blob := newTestServer(t)

	for _, filename := range []string{"virus.exe", "report.pdf"} {
		w := doCreate(t, r, "n", "d", filename)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", filename, w.Code)
		}
		res := decodeError(t, w)
		if res.Message != cqrs.FileNotValidMessage {
			t.Fatalf("%s: message = %q; want %q", filename, res.Message, cqrs.FileNotValidMessage)
		}
		if res.Code != ErrCodeInvalidFile || res.Status != http.StatusBadRequest {
			t.Fatalf("%s: envelope = %+v", filename, res)
		}
	}
	if n := countRows(t, db); n != 0 {
		t.Fatalf("rejected uploads must not insert rows, got %d", n)
	}
	if blob.calls != 0 {
		t.Fatalf("rejected uploads must not reach blob storage, calls = %d", blob.calls)
	}
}

func TestCreatePost_UppercaseExtensionAccepted(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doCreate(t, r, "n", "d", "PHOTO.JPEG")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
}

func TestCreatePost_MissingFields(t *testing.T) {
	r, db, _ := newTestServer(t)

	w := doCreate(t, r, "", "only description", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if res := decodeError(t, w); res.Code != ErrCodeBadRequest {
		t.Fatalf("envelope = %+v", res)
	}
	if n := countRows(t, db); n != 0 {
		t.Fatalf("invalid form must not insert rows")
	}
}

// ---------- get (cached) ----------

func TestGetPost_ServedFromCacheAfterFirstRead(t *testing.T) {
	r, db, _ := newTestServer(t)

	created := decodePost(t, doCreate(t, r, "cached post", "body", ""))

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v2/posts/"+created.Sid, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := get()
	if w.Code != http.StatusOK {
		t.Fatalf("first read: %d", w.Code)
	}

	// Flip the row to deleted behind the cache's back. The cached projection
	// must keep serving: the entry is never invalidated by writes.
	if err := db.Model(&domain.Post{}).Where("sid = ?", created.Sid).
		Update("status", domain.StatusDeleted).Error; err != nil {
		t.Fatalf("raw update: %v", err)
	}

	w = get()
	if w.Code != http.StatusOK {
		t.Fatalf("cached read: %d (body %s)", w.Code, w.Body.String())
	}
	if res := decodePost(t, w); res.Name != "cached post" {
		t.Fatalf("cached projection = %+v", res)
	}
}

func TestGetPost_UnknownSid404(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v2/posts/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	res := decodeError(t, w)
	if res.Message != cqrs.PostNotFoundMessage || res.Code != ErrCodeNotFound {
		t.Fatalf("envelope = %+v", res)
	}
}

// ---------- update ----------

func TestUpdatePost_OverwritesFields(t *testing.T) {
	r, _, _ := newTestServer(t)
	created := decodePost(t, doCreate(t, r, "before", "old", ""))

	body, ct := multipartBody(t, "after", "new", "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v2/posts/"+created.Sid, body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	res := decodePost(t, w)
	if res.Name != "after" || res.Description != "new" || res.Sid != created.Sid {
		t.Fatalf("response = %+v", res)
	}
}

func TestUpdatePost_UnknownSid404(t *testing.T) {
	r, _, _ := newTestServer(t)

	body, ct := multipartBody(t, "n", "d", "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v2/posts/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if res := decodeError(t, w); res.Message != cqrs.PostNotFoundMessage {
		t.Fatalf("envelope = %+v", res)
	}
}

func TestUpdatePost_NonImageRejected(t *testing.T) {
	r, _, _ := newTestServer(t)
	created := decodePost(t, doCreate(t, r, "n", "d", ""))

	body, ct := multipartBody(t, "n2", "d2", "notes.txt")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v2/posts/"+created.Sid, body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if res := decodeError(t, w); res.Message != cqrs.FileNotValidMessage {
		t.Fatalf("envelope = %+v", res)
	}
}

// ---------- delete ----------

func TestDeletePost_204ThenSecondDelete404(t *testing.T) {
	r, _, _ := newTestServer(t)
	created := decodePost(t, doCreate(t, r, "bye", "d", ""))

	del := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v2/posts/"+created.Sid, nil)
		r.ServeHTTP(w, req)
		return w
	}

	if w := del(); w.Code != http.StatusNoContent {
		t.Fatalf("first delete: %d", w.Code)
	}
	w := del()
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", w.Code)
	}
	if res := decodeError(t, w); res.Message != cqrs.PostNotFoundMessage {
		t.Fatalf("envelope = %+v", res)
	}
}

// ---------- list ----------

func listURL(query string) string { return "/v2/posts" + query }

func doList(t *testing.T, r *gin.Engine, query string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, listURL(query), nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListPosts_SortedDescending(t *testing.T) {
	r, _, _ := newTestServer(t)
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		if w := doCreate(t, r, name, "entry", ""); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d", name, w.Code)
		}
	}

	w := doList(t, r, "?sortColumn=post_name&sortOrder=DESC", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res cqrs.PostListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Posts.TotalRecords != 3 || res.Posts.Data[0].Name != "charlie" {
		t.Fatalf("list = %+v", res.Posts)
	}
}

func TestListPosts_UnknownSortColumn400(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doList(t, r, "?sortColumn=password", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if res := decodeError(t, w); res.Code != ErrCodeBadRequest {
		t.Fatalf("envelope = %+v", res)
	}
}

func TestListPosts_UnknownSortColumnBeatsETag(t *testing.T) {
	r, _, _ := newTestServer(t)
	if w := doCreate(t, r, "etagged", "d", ""); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	first := doList(t, r, "", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag header")
	}

	// A matching conditional header must not mask the bad sort column.
	h := http.Header{}
	h.Set("If-None-Match", etag)
	w := doList(t, r, "?sortColumn=password", h)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if res := decodeError(t, w); res.Code != ErrCodeBadRequest {
		t.Fatalf("envelope = %+v", res)
	}
}

func TestListPosts_ETagNotModified(t *testing.T) {
	r, _, _ := newTestServer(t)
	if w := doCreate(t, r, "etagged", "d", ""); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	first := doList(t, r, "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first list: %d", first.Code)
	}
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag header")
	}

	h := http.Header{}
	h.Set("If-None-Match", etag)
	second := doList(t, r, "", h)
	if second.Code != http.StatusNotModified {
		t.Fatalf("second list with matching etag: %d", second.Code)
	}

	// Another write changes the stats, so the old etag stops matching.
	if w := doCreate(t, r, "fresh", "d", ""); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}
	third := doList(t, r, "", h)
	if third.Code != http.StatusOK {
		t.Fatalf("list after write with stale etag: %d", third.Code)
	}
}

func TestListPosts_SearchText(t *testing.T) {
	r, _, _ := newTestServer(t)
	if w := doCreate(t, r, "go concurrency", "channels and goroutines", ""); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}
	if w := doCreate(t, r, "gardening", "tomatoes", ""); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	w := doList(t, r, "?searchText=GOROUTINES", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res cqrs.PostListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Posts.TotalRecords != 1 || res.Posts.Data[0].Name != "go concurrency" {
		t.Fatalf("list = %+v", res.Posts)
	}
}
