package ports

import (
	"context"

	"listify-shopee-layer/internal/domain"
)

// Describer turns product photos into listing copy. Implementations must
// always return usable content: unparsable model output degrades to a
// placeholder title with the raw text as description, never an error.
type Describer interface {
	DescribeProduct(ctx context.Context, images []domain.ImagePart, hints domain.DescribeHints) (domain.GeneratedContent, error)
}
