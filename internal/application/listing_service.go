package application

import (
	"context"
	"fmt"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Shipping defaults applied when the form leaves them blank.
const (
	defaultWeightGrams = 1000
	defaultDimensionCM = 10
)

// PublishInput is the browser-form payload for creating a listing.
// Validation is a presence check only; the marketplace is the source of
// truth for field legality.
type PublishInput struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	CategoryID    int64    `json:"category_id" validate:"required"`
	Price         float64  `json:"price" validate:"required"`
	OriginalPrice float64  `json:"original_price"`
	Stock         int      `json:"stock" validate:"required"`
	Weight        int      `json:"weight"`
	PackageLength int      `json:"package_length"`
	PackageWidth  int      `json:"package_width"`
	PackageHeight int      `json:"package_height"`
	ImageIDs      []string `json:"image_ids" validate:"required,min=1"`
	BrandName     string   `json:"brand_name"`
	PreOrder      bool     `json:"pre_order"`
	DaysToShip    int      `json:"days_to_ship"`
}

// ListingService sequences image upload, AI description and product
// creation on top of the signed client.
type ListingService struct {
	client    ports.ShopeeClient
	describer ports.Describer
	images    ports.ImageStore
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewListingService creates the listing orchestrator.
func NewListingService(
	client ports.ShopeeClient,
	describer ports.Describer,
	images ports.ImageStore,
	logger zerolog.Logger,
) *ListingService {
	return &ListingService{
		client:    client,
		describer: describer,
		images:    images,
		validate:  validator.New(),
		logger:    logger,
	}
}

// GenerateContent reads the stored images and asks the describer for
// listing copy. Unparsable model output degrades inside the describer;
// only transport failures surface here.
func (s *ListingService) GenerateContent(ctx context.Context, imageIDs []string, hints domain.DescribeHints) (domain.GeneratedContent, error) {
	if len(imageIDs) == 0 {
		return domain.GeneratedContent{}, fmt.Errorf("no images provided")
	}

	parts := make([]domain.ImagePart, 0, len(imageIDs))
	for _, id := range imageIDs {
		data, mimeType, err := s.images.Load(ctx, id)
		if err != nil {
			return domain.GeneratedContent{}, err
		}
		parts = append(parts, domain.ImagePart{Data: data, MIMEType: mimeType})
	}

	return s.describer.DescribeProduct(ctx, parts, hints)
}

// Publish uploads every referenced image to the marketplace and creates
// the listing. Uploads run concurrently and fail fast: if any one fails,
// no product is created with a partial image list.
func (s *ListingService) Publish(ctx context.Context, sess domain.ShopSession, in PublishInput) (*domain.ItemResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("missing required fields: %w", err)
	}

	imageIDs, err := s.uploadAll(ctx, sess, in.ImageIDs)
	if err != nil {
		return nil, err
	}

	product := buildProductRequest(in, imageIDs)
	result, err := s.client.CreateProduct(ctx, sess, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("item_id", result.ItemID).
		Int("images", len(imageIDs)).
		Msg("Published listing")
	return result, nil
}

// uploadAll pushes each local image to the media space, one goroutine per
// image, preserving order. The shared errgroup context cancels the
// remaining uploads on the first failure.
func (s *ListingService) uploadAll(ctx context.Context, sess domain.ShopSession, localIDs []string) ([]string, error) {
	imageIDs := make([]string, len(localIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range localIDs {
		g.Go(func() error {
			data, mimeType, err := s.images.Load(ctx, id)
			if err != nil {
				return err
			}
			imageID, err := s.client.UploadImage(ctx, sess, data, mimeType)
			if err != nil {
				return fmt.Errorf("upload image %s: %w", id, err)
			}
			imageIDs[i] = imageID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imageIDs, nil
}

func buildProductRequest(in PublishInput, imageIDs []string) domain.ProductRequest {
	originalPrice := in.OriginalPrice
	if originalPrice == 0 {
		originalPrice = in.Price
	}
	weight := in.Weight
	if weight == 0 {
		weight = defaultWeightGrams
	}
	dim := domain.Dimension{
		PackageLength: orDefault(in.PackageLength, defaultDimensionCM),
		PackageWidth:  orDefault(in.PackageWidth, defaultDimensionCM),
		PackageHeight: orDefault(in.PackageHeight, defaultDimensionCM),
	}

	product := domain.ProductRequest{
		ItemName:      in.Title,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		OriginalPrice: originalPrice,
		NormalStock:   in.Stock,
		Weight:        weight,
		Dimension:     dim,
		ItemStatus:    domain.ItemStatusNormal,
		Image:         domain.ProductImage{ImageIDList: imageIDs},
	}
	if in.BrandName != "" {
		product.Brand = &domain.Brand{BrandID: 0, OriginalBrandName: in.BrandName}
	}
	if in.PreOrder && in.DaysToShip > 0 {
		product.PreOrder = &domain.PreOrder{IsPreOrder: true, DaysToShip: in.DaysToShip}
	}
	return product
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Categories proxies the category tree lookup.
func (s *ListingService) Categories(ctx context.Context, sess domain.ShopSession, language string) ([]domain.Category, error) {
	return s.client.GetCategories(ctx, sess, language)
}

// CategoryAttributes proxies the attribute schema lookup.
func (s *ListingService) CategoryAttributes(ctx context.Context, sess domain.ShopSession, categoryID int64) ([]domain.Attribute, error) {
	return s.client.GetCategoryAttributes(ctx, sess, categoryID)
}

// StoreImages saves each uploaded file and returns their descriptors.
func (s *ListingService) StoreImages(ctx context.Context, files []NamedFile) ([]domain.UploadedImage, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files uploaded")
	}
	stored := make([]domain.UploadedImage, 0, len(files))
	for _, f := range files {
		img, err := s.images.Save(ctx, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		stored = append(stored, img)
	}
	return stored, nil
}

// NamedFile is one uploaded file from the browser form.
type NamedFile struct {
	Name string
	Data []byte
}
