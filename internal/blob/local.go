package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes images into a directory on disk and references them by
// generated filename.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore constructs a LocalStore rooted at dir. The directory is
// created on the first Save.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir, now: time.Now}
}

// Dir is the directory images are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes the file synchronously as <unix-millis>-<random><ext>.
func (s *LocalStore) Save(_ context.Context, f *File) (*string, error) {
	if f == nil || f.Reader == nil {
		return nil, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, &StorageWriteError{Err: fmt.Errorf("create upload dir: %w", err)}
	}
	name := s.newName(f.Filename)
	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, &StorageWriteError{Err: fmt.Errorf("create file: %w", err)}
	}
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(dst, f.Reader, buf); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, &StorageWriteError{Err: fmt.Errorf("write file: %w", err)}
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, &StorageWriteError{Err: fmt.Errorf("close file: %w", err)}
	}
	return &name, nil
}

// Delete removes the file if it still exists. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, reference string) error {
	path, err := s.path(reference)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Open returns the stored file for a reference.
func (s *LocalStore) Open(reference string) (*os.File, error) {
	path, err := s.path(reference)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// path only accepts bare filenames so a reference can never escape dir.
func (s *LocalStore) path(reference string) (string, error) {
	if reference == "" || reference == "." || reference == ".." || filepath.Base(reference) != reference {
		return "", fmt.Errorf("invalid image reference %q", reference)
	}
	return filepath.Join(s.dir, reference), nil
}

func (s *LocalStore) newName(originalName string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, extension(originalName))
}
