// Package storage is the asset-store abstraction behind menu and profile
// images.
//
// Two drivers are available out of the box:
//   - "local"  — local filesystem under the uploads root (default)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	// boot once (in internal/server):
//	storage.Connect()
//
//	disk := storage.Default()
//	err := disk.Put(ctx, "menu/123.jpg", data, "image/jpeg")
//	url := disk.URL("menu/123.jpg")
//
// Every operation takes a context so callers can bound asset-store latency
// with per-call timeouts.
package storage

import (
	"context"
	"time"
)

// Disk is the asset-store driver interface.
type Disk interface {
	// Put writes content to path with the given content type, creating any
	// parent directories/prefixes as needed.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public locator for path. For the local driver this is
	// a relative /uploads/... path; for S3 an absolute object URL.
	URL(path string) string

	// Path resolves a locator previously returned by URL back to the
	// driver-relative object path. Returns false when the locator does not
	// belong to this disk.
	Path(locator string) (string, bool)

	// AllFiles lists all object paths under prefix, recursively.
	AllFiles(ctx context.Context, prefix string) ([]string, error)
}

// WithTimeout derives the bounded context used for one asset-store call.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
