// Package blob persists uploaded school images and hands back an opaque
// reference that can later be used to retrieve them. Two strategies exist:
// LocalStore writes to a directory served as static content and S3Store
// uploads to an S3-compatible object store.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dharsanguruparan/SchoolHub/internal/config"
)

// Folder is the fixed logical folder images are grouped under.
const Folder = "schoolImages"

// File is an uploaded image as received from the client.
type File struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

// Store is implemented by every blob strategy.
type Store interface {
	// Save persists the file and returns its reference. A nil file yields a
	// nil reference and no error.
	Save(ctx context.Context, f *File) (*string, error)
	// Delete removes the blob behind a reference on a best-effort basis.
	Delete(ctx context.Context, reference string) error
}

// StorageWriteError reports that an image could not be persisted.
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("store image: %v", e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// New builds the strategy selected by cfg.BlobStrategy. For S3 the bucket is
// created when missing.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobStrategy {
	case config.BlobLocal:
		return NewLocalStore(cfg.UploadDir), nil
	case config.BlobS3:
		s, err := NewS3Store(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob strategy: %q", cfg.BlobStrategy)
	}
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// extension keeps the original extension when it looks sane and drops it
// otherwise.
func extension(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
