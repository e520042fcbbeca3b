package ports

import (
	"context"

	"listify-shopee-layer/internal/domain"
)

// ShopeeClient defines the signed partner-API operations this layer uses.
// Every call issues exactly one outbound request; errors are returned as-is
// with no retries.
type ShopeeClient interface {
	// UploadImage sends one image to the media space and returns the
	// marketplace-assigned image id. contentType labels the multipart
	// part; empty means application/octet-stream.
	UploadImage(ctx context.Context, sess domain.ShopSession, data []byte, contentType string) (string, error)

	// CreateProduct publishes a listing and returns its marketplace identity.
	CreateProduct(ctx context.Context, sess domain.ShopSession, req domain.ProductRequest) (*domain.ItemResult, error)

	// GetCategories fetches the category tree in the given display language.
	GetCategories(ctx context.Context, sess domain.ShopSession, language string) ([]domain.Category, error)

	// GetCategoryAttributes fetches the attribute schema of one category.
	GetCategoryAttributes(ctx context.Context, sess domain.ShopSession, categoryID int64) ([]domain.Attribute, error)
}

// TokenExchanger turns an authorization code into tokens and refreshes
// them. It holds no token state of its own; deciding when to refresh is the
// caller's job.
type TokenExchanger interface {
	// AuthURL builds the partner authorization URL. Pure, no network call.
	AuthURL(redirectURL string) string

	// ExchangeCode trades the OAuth callback code for a token pair.
	ExchangeCode(ctx context.Context, code string, shopID int64) (*domain.TokenPair, error)

	// RefreshToken obtains a new access token from a refresh token.
	RefreshToken(ctx context.Context, refreshToken string, shopID int64) (*domain.TokenPair, error)
}
