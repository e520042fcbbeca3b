package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production partner API host.
const DefaultBaseURL = "https://partner.shopeemobile.com"

const defaultTimeout = 30 * time.Second

const (
	pathUploadImage   = "/api/v2/media_space/upload_image"
	pathAddItem       = "/api/v2/product/add_item"
	pathGetCategory   = "/api/v2/product/get_category"
	pathGetAttributes = "/api/v2/product/get_attributes"
)

type client struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a partner-API client adapter with the default base URL
// and timeout.
func NewClient(signer *Signer, logger zerolog.Logger) ports.ShopeeClient {
	return NewClientWithOptions(signer, DefaultBaseURL, nil, logger)
}

// NewClientWithOptions creates a client against a specific base URL,
// optionally with a caller-supplied http.Client.
func NewClientWithOptions(signer *Signer, baseURL string, httpClient *http.Client, logger zerolog.Logger) ports.ShopeeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &client{
		baseURL:    baseURL,
		signer:     signer,
		httpClient: httpClient,
		logger:     logger,
	}
}

// envelope is the outer shape of every partner-API response. A non-empty
// error field inside a 200 response is still a failure.
type envelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// signedURL builds the request URL with the five required query parameters
// plus any endpoint-specific extras.
func (c *client) signedURL(path string, sess domain.ShopSession, extra url.Values) string {
	timestamp := time.Now().Unix()
	sign := c.signer.SignWithSession(path, timestamp, sess.AccessToken, sess.ShopID)

	q := url.Values{}
	q.Set("partner_id", strconv.FormatInt(c.signer.PartnerID(), 10))
	q.Set("timestamp", strconv.FormatInt(timestamp, 10))
	q.Set("access_token", sess.AccessToken)
	q.Set("shop_id", strconv.FormatInt(sess.ShopID, 10))
	q.Set("sign", sign)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + path + "?" + q.Encode()
}

// call performs one authenticated request and decodes the response into
// out. Single attempt: add_item is not idempotent, so failures propagate
// instead of being retried.
func (c *client) call(ctx context.Context, method, path string, body any, sess domain.ShopSession, extra url.Values, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.signedURL(path, sess, extra), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, out)
}

func (c *client) do(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiRequestsTotal.WithLabelValues(path, outcomeTransport).Inc()
		return fmt.Errorf("shopee: %s: %w", path, err)
	}
	defer resp.Body.Close()
	apiRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiRequestsTotal.WithLabelValues(path, outcomeTransport).Inc()
		return fmt.Errorf("shopee: %s: read response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiRequestsTotal.WithLabelValues(path, outcomeTransport).Inc()
		c.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("Partner API transport error")
		return &APIError{
			Phase:  PhaseTransport,
			Path:   path,
			Status: resp.StatusCode,
			Detail: string(raw),
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		apiRequestsTotal.WithLabelValues(path, outcomeApplication).Inc()
		return fmt.Errorf("shopee: %s: decode response: %w", path, err)
	}
	if env.Error != "" {
		apiRequestsTotal.WithLabelValues(path, outcomeApplication).Inc()
		detail := env.Message
		if detail == "" {
			detail = env.Error
		}
		c.logger.Warn().Str("path", path).Str("error", env.Error).Str("message", env.Message).Msg("Partner API application error")
		return &APIError{
			Phase:  PhaseApplication,
			Path:   path,
			Status: resp.StatusCode,
			Code:   env.Error,
			Detail: detail,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("shopee: %s: decode response: %w", path, err)
		}
	}
	apiRequestsTotal.WithLabelValues(path, outcomeOK).Inc()
	return nil
}

// UploadImage sends one image as a single-part multipart body. The field
// name and filename are fixed by the endpoint; the part content type
// follows the sniffed type of the bytes rather than assuming JPEG.
func (c *client) UploadImage(ctx context.Context, sess domain.ShopSession, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="image.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signedURL(pathUploadImage, sess, nil), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Response struct {
			ImageID string `json:"image_id"`
		} `json:"response"`
	}
	if err := c.do(req, pathUploadImage, &out); err != nil {
		return "", err
	}
	return out.Response.ImageID, nil
}

func (c *client) CreateProduct(ctx context.Context, sess domain.ShopSession, product domain.ProductRequest) (*domain.ItemResult, error) {
	var out struct {
		Response domain.ItemResult `json:"response"`
	}
	if err := c.call(ctx, http.MethodPost, pathAddItem, product, sess, nil, &out); err != nil {
		return nil, err
	}
	c.logger.Info().
		Int64("shop_id", sess.ShopID).
		Int64("item_id", out.Response.ItemID).
		Str("item_status", out.Response.ItemStatus).
		Msg("Created product listing")
	return &out.Response, nil
}

func (c *client) GetCategories(ctx context.Context, sess domain.ShopSession, language string) ([]domain.Category, error) {
	extra := url.Values{}
	if language != "" {
		extra.Set("language", language)
	}
	var out struct {
		Response struct {
			CategoryList []domain.Category `json:"category_list"`
		} `json:"response"`
	}
	if err := c.call(ctx, http.MethodGet, pathGetCategory, nil, sess, extra, &out); err != nil {
		return nil, err
	}
	return out.Response.CategoryList, nil
}

func (c *client) GetCategoryAttributes(ctx context.Context, sess domain.ShopSession, categoryID int64) ([]domain.Attribute, error) {
	extra := url.Values{}
	extra.Set("category_id", strconv.FormatInt(categoryID, 10))
	var out struct {
		Response struct {
			AttributeList []domain.Attribute `json:"attribute_list"`
		} `json:"response"`
	}
	if err := c.call(ctx, http.MethodGet, pathGetAttributes, nil, sess, extra, &out); err != nil {
		return nil, err
	}
	return out.Response.AttributeList, nil
}
