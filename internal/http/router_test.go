package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-post-service/internal/config"
	"github.com/tbourn/go-post-service/internal/cqrs"
	"github.com/tbourn/go-post-service/internal/domain"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Post{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig(t *testing.T, origins []string) config.Config {
	t.Helper()
	return config.Config{
		APIBasePath: "/v2",
		RateRPS:     100,
		RateBurst:   100,
		CORS:        config.CORSConfig{AllowedOrigins: origins},
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Blob: config.BlobConfig{
			Dir:       t.TempDir(),
			Container: "post-images",
			BaseURL:   "http://localhost:8080/blobs",
		},
		Cache: config.CacheConfig{
			Capacity:     128,
			Shards:       2,
			TTL:          time.Minute,
			EvictPercent: 10,
		},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig(t, nil)) // nil origins triggers AllowAllOrigins branch

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig(t, []string{"http://example.com"}))

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected origin echo, got %q", got)
	}

	// Origins outside the allowlist get no ACAO header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no ACAO for unknown origin, got %q", got)
	}
}

func TestRegisterRoutes_EndToEnd_CreateGetDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig(t, nil))

	// Create through the fully wired stack (multipart, with an image).
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "wired post")
	_ = mw.WriteField("description", "through the router")
	fw, err := mw.CreateFormFile("file", "pic.png")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	_, _ = fw.Write([]byte{1, 2, 3})
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v2/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d (body %s)", w.Code, w.Body.String())
	}
	var created cqrs.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ImageURL == "" {
		t.Fatalf("image_url empty: %+v", created)
	}

	// The returned image_url resolves against the service's own /blobs route.
	blobPath := strings.TrimPrefix(created.ImageURL, "http://localhost:8080")
	if !strings.HasPrefix(blobPath, "/blobs/post-images/") {
		t.Fatalf("unexpected image_url %q", created.ImageURL)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, blobPath, nil)
	req.Header.Set("Accept-Encoding", "identity")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", blobPath, w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), []byte{1, 2, 3}) {
		t.Fatalf("blob body = %v; want uploaded bytes", w.Body.Bytes())
	}

	// Read it back through the cached path.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v2/posts/"+created.Sid, nil)
	req.Header.Set("Accept-Encoding", "identity")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d (body %s)", w.Code, w.Body.String())
	}

	// Soft delete, then the second delete is a 404.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v2/posts/"+created.Sid, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v2/posts/"+created.Sid, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", w.Code)
	}
}
