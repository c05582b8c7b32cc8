// Package blob stores uploaded post images and hands back the public URL
// under which they are served.
//
// The only implementation is DiskUploader, which writes blobs under a root
// directory with one subdirectory per container. Stored names are freshly
// generated UUIDs carrying the original file extension, so uploads never
// collide and never trust client-supplied names.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskUploader persists blobs on the local filesystem.
type DiskUploader struct {
	// Dir is the root directory for all containers.
	Dir string

	// BaseURL is the public prefix prepended to container/name when building
	// the returned URL, e.g. "http://localhost:8080/blobs".
	BaseURL string
}

// NewDiskUploader returns a DiskUploader rooted at dir.
func NewDiskUploader(dir, baseURL string) *DiskUploader {
	return &DiskUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes data into the container using a generated name that keeps
// the original extension, and returns the public URL of the stored blob.
func (u *DiskUploader) Upload(ctx context.Context, data []byte, origName, container string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(container) == "" {
		return "", fmt.Errorf("blob: container must not be empty")
	}

	name := uuid.NewString() + sanitizeExt(origName)

	dir := filepath.Join(u.Dir, container)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("blob: create container %q: %w", container, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("blob: write %q: %w", name, err)
	}

	return u.BaseURL + "/" + container + "/" + name, nil
}

// sanitizeExt extracts a safe lowercase extension from the original name.
// Anything that does not look like a short alphanumeric extension is dropped.
func sanitizeExt(origName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(origName)))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
