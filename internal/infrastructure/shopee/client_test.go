package shopee

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"listify-shopee-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = domain.ShopSession{
	ShopID:      424242,
	AccessToken: "access-token",
}

func testSigner() *Signer {
	return NewSigner(998877, "test-partner-key")
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*client, *Signer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	signer := testSigner()
	c := NewClientWithOptions(signer, srv.URL, srv.Client(), zerolog.Nop()).(*client)
	return c, signer
}

func TestCallSendsFiveQueryParamsWithValidSignature(t *testing.T) {
	var captured *http.Request
	c, signer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`{"error":"","response":{}}`))
	})

	err := c.call(context.Background(), http.MethodPost, "/api/v2/product/add_item", map[string]string{"x": "y"}, testSession, nil, nil)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Len(t, q, 5)
	assert.Equal(t, "998877", q.Get("partner_id"))
	assert.Equal(t, "access-token", q.Get("access_token"))
	assert.Equal(t, "424242", q.Get("shop_id"))
	assert.NotEmpty(t, q.Get("timestamp"))

	ts, err := strconv.ParseInt(q.Get("timestamp"), 10, 64)
	require.NoError(t, err)
	want := signer.SignWithSession("/api/v2/product/add_item", ts, "access-token", 424242)
	assert.Equal(t, want, q.Get("sign"))

	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
}

func TestCallNonOKStatusIsTransportError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	var out map[string]any
	err := c.call(context.Background(), http.MethodGet, "/api/v2/product/get_category", nil, testSession, nil, &out)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, PhaseTransport, apiErr.Phase)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "upstream exploded")
	assert.Empty(t, out)
}

func TestCallBusinessErrorInsideOKResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"x","message":"bad category"}`))
	})

	err := c.call(context.Background(), http.MethodPost, "/api/v2/product/add_item", nil, testSession, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, PhaseApplication, apiErr.Phase)
	assert.Equal(t, "x", apiErr.Code)
	assert.Equal(t, "bad category", apiErr.Detail)
}

func TestCallBusinessErrorFallsBackToCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"error_param"}`))
	})

	err := c.call(context.Background(), http.MethodGet, "/api/v2/product/get_category", nil, testSession, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "error_param", apiErr.Detail)
}

func TestUploadImageSendsSignedMultipart(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	signer := testSigner()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "image.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, payload, data)

		q := r.URL.Query()
		assert.Len(t, q, 5)
		ts, err := strconv.ParseInt(q.Get("timestamp"), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, signer.SignWithSession("/api/v2/media_space/upload_image", ts, "access-token", 424242), q.Get("sign"))

		w.Write([]byte(`{"error":"","response":{"image_id":"img-123"}}`))
	})

	imageID, err := c.UploadImage(context.Background(), testSession, payload, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "img-123", imageID)
}

func TestUploadImageDefaultsContentType(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", header.Header.Get("Content-Type"))
		w.Write([]byte(`{"error":"","response":{"image_id":"img-1"}}`))
	})

	_, err := c.UploadImage(context.Background(), testSession, []byte{1, 2, 3}, "")
	require.NoError(t, err)
}

func TestUploadImageSurfacesUploadError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"error_upload","message":"image too large"}`))
	})

	_, err := c.UploadImage(context.Background(), testSession, []byte{1}, "image/png")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, PhaseApplication, apiErr.Phase)
	assert.Equal(t, "image too large", apiErr.Detail)
}

func TestCreateProductDecodesItemResult(t *testing.T) {
	var gotBody domain.ProductRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/product/add_item", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"error":"","response":{"item_id":555001,"item_status":"NORMAL","create_time":1700000123}}`))
	})

	req := domain.ProductRequest{
		ItemName:      "Ceramic mug",
		Description:   "Hand glazed",
		CategoryID:    100182,
		OriginalPrice: 12.5,
		NormalStock:   30,
		Weight:        1000,
		Dimension:     domain.Dimension{PackageLength: 10, PackageWidth: 10, PackageHeight: 10},
		ItemStatus:    domain.ItemStatusNormal,
		Image:         domain.ProductImage{ImageIDList: []string{"img-1", "img-2"}},
	}
	result, err := c.CreateProduct(context.Background(), testSession, req)
	require.NoError(t, err)

	assert.Equal(t, int64(555001), result.ItemID)
	assert.Equal(t, "NORMAL", result.ItemStatus)
	assert.Equal(t, int64(1700000123), result.CreateTime)
	assert.Equal(t, req.ItemName, gotBody.ItemName)
	assert.Equal(t, req.Image.ImageIDList, gotBody.Image.ImageIDList)
}

func TestCreateProductNeverReturnsDataOnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	result, err := c.CreateProduct(context.Background(), testSession, domain.ProductRequest{})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestGetCategoriesAddsLanguageToSignedQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "zh-hant", q.Get("language"))
		for _, required := range []string{"partner_id", "timestamp", "access_token", "shop_id", "sign"} {
			assert.NotEmpty(t, q.Get(required), "missing %s", required)
		}
		w.Write([]byte(`{"error":"","response":{"category_list":[
			{"category_id":100001,"parent_category_id":0,"original_category_name":"Home","display_category_name":"居家生活","has_children":true},
			{"category_id":100182,"parent_category_id":100001,"original_category_name":"Mugs","display_category_name":"馬克杯","has_children":false}
		]}}`))
	})

	categories, err := c.GetCategories(context.Background(), testSession, "zh-hant")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, int64(100001), categories[0].CategoryID)
	assert.Equal(t, "馬克杯", categories[1].DisplayCategoryName)
	assert.True(t, categories[0].HasChildren)
}

func TestGetCategoryAttributes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100182", r.URL.Query().Get("category_id"))
		w.Write([]byte(`{"error":"","response":{"attribute_list":[
			{"attribute_id":1000,"original_attribute_name":"Material","is_mandatory":true,"input_type":"DROP_DOWN",
			 "attribute_value_list":[{"value_id":1,"original_value_name":"Ceramic"}]}
		]}}`))
	})

	attrs, err := c.GetCategoryAttributes(context.Background(), testSession, 100182)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Material", attrs[0].OriginalAttributeName)
	assert.True(t, attrs[0].IsMandatory)
	require.Len(t, attrs[0].AttributeValueList, 1)
	assert.Equal(t, "Ceramic", attrs[0].AttributeValueList[0].OriginalValueName)
}

func TestCallDoesNotRetry(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.call(context.Background(), http.MethodPost, "/api/v2/product/add_item", nil, testSession, nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
}
