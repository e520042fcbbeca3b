package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// LocalStore keeps uploaded product photos on disk under random ids.
// The mapping is id -> bytes only; nothing else is recorded.
type LocalStore struct {
	dir     string
	urlBase string
}

var _ ports.ImageStore = (*LocalStore)(nil)

// NewLocalStore creates the store rooted at dir; files are served under
// urlBase (e.g. /uploads).
func NewLocalStore(dir, urlBase string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, urlBase: urlBase}, nil
}

// Dir returns the directory the store writes into.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (domain.UploadedImage, error) {
	mtype := mimetype.Detect(data)

	ext := filepath.Ext(name)
	if ext == "" {
		ext = mtype.Extension()
	}
	id := uuid.NewString() + ext

	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o644); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("failed to write image %s: %w", id, err)
	}

	return domain.UploadedImage{
		ID:   id,
		URL:  path.Join(s.urlBase, id),
		Name: name,
		Size: int64(len(data)),
		Type: mtype.String(),
	}, nil
}

func (s *LocalStore) Load(_ context.Context, id string) ([]byte, string, error) {
	// Ids are opaque filenames; anything path-like is rejected.
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, "", fmt.Errorf("invalid image id %q", id)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", id, err)
	}
	return data, mimetype.Detect(data).String(), nil
}
