package ports

import (
	"context"
	"time"

	"listify-shopee-layer/internal/domain"
)

// SessionStore persists shop sessions keyed by an opaque session id.
// Get returns (nil, nil) when the id is unknown or expired.
type SessionStore interface {
	Get(ctx context.Context, sid string) (*domain.ShopSession, error)
	Set(ctx context.Context, sid string, sess domain.ShopSession, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

// ImageStore is the id -> bytes lookup for locally uploaded product photos.
type ImageStore interface {
	// Save stores data under a fresh id and returns its descriptor.
	Save(ctx context.Context, name string, data []byte) (domain.UploadedImage, error)

	// Load returns the stored bytes and their sniffed MIME type.
	Load(ctx context.Context, id string) ([]byte, string, error)
}
