package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore saves uploaded files under a local directory and hands back a
// URL the client can resolve. Absence of a file is never an error at this
// layer; callers simply skip the save.
type MediaStore struct {
	dir       string
	urlPrefix string
}

// NewMediaStore creates a MediaStore rooted at dir. The directory is
// created if it does not exist.
func NewMediaStore(dir, urlPrefix string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &MediaStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save stores a multipart upload under subdir with a random filename and
// returns its URL.
func (s *MediaStore) Save(file *multipart.FileHeader, subdir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	destDir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media subdirectory: %w", err)
	}

	dst, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return s.urlPrefix + "/" + path.Join(subdir, name), nil
}

// Dir returns the root directory media files are stored under.
func (s *MediaStore) Dir() string {
	return s.dir
}
