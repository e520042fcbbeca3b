package shopee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, handler http.HandlerFunc) (*auth, *Signer) {
	t.Helper()
	signer := testSigner()
	base := DefaultBaseURL
	var httpClient *http.Client
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		base = srv.URL
		httpClient = srv.Client()
	}
	a := NewAuthWithOptions(signer, base, httpClient, zerolog.Nop()).(*auth)
	return a, signer
}

func TestAuthURLSignsWithoutSessionFields(t *testing.T) {
	a, signer := newTestAuth(t, nil)

	raw := a.AuthURL("https://example.com/auth/shopee/callback")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/shop/auth_partner", u.Path)

	q := u.Query()
	assert.Equal(t, "998877", q.Get("partner_id"))
	assert.Equal(t, "https://example.com/auth/shopee/callback", q.Get("redirect"))
	assert.Empty(t, q.Get("access_token"))
	assert.Empty(t, q.Get("shop_id"))

	ts, err := strconv.ParseInt(q.Get("timestamp"), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, signer.Sign("/api/v2/shop/auth_partner", ts), q.Get("sign"))
}

func TestExchangeCodeReturnsTokenPair(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	signer := testSigner()
	a, _ := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		q := r.URL.Query()
		ts, err := strconv.ParseInt(q.Get("timestamp"), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, signer.Sign(r.URL.Path, ts), q.Get("sign"))
		assert.Empty(t, q.Get("access_token"))
		assert.Empty(t, q.Get("shop_id"))

		w.Write([]byte(`{"error":"","access_token":"at-1","refresh_token":"rt-1","expire_in":14400,"shop_id_list":[424242]}`))
	})

	pair, err := a.ExchangeCode(context.Background(), "auth-code", 424242)
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/auth/token/get", gotPath)
	assert.Equal(t, "auth-code", gotBody["code"])
	assert.EqualValues(t, 424242, gotBody["shop_id"])
	assert.EqualValues(t, 998877, gotBody["partner_id"])

	assert.Equal(t, "at-1", pair.AccessToken)
	assert.Equal(t, "rt-1", pair.RefreshToken)
	assert.Equal(t, int64(14400), pair.ExpireIn)
	assert.Equal(t, []int64{424242}, pair.ShopIDList)
}

func TestExchangeCodeNonOKStatus(t *testing.T) {
	a, _ := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid partner"))
	})

	pair, err := a.ExchangeCode(context.Background(), "auth-code", 424242)
	assert.Nil(t, pair)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Detail, "status 403")
	assert.Contains(t, authErr.Detail, "invalid partner")
}

func TestRefreshTokenHitsRefreshEndpoint(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	a, _ := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"error":"","access_token":"at-2","refresh_token":"rt-2","expire_in":14400}`))
	})

	pair, err := a.RefreshToken(context.Background(), "rt-1", 424242)
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/auth/access_token/get", gotPath)
	assert.Equal(t, "rt-1", gotBody["refresh_token"])
	assert.Equal(t, "at-2", pair.AccessToken)
}

func TestRefreshTokenMalformedTokenAlwaysFails(t *testing.T) {
	bodies := []string{
		`{"error":"error_auth","message":"invalid refresh token"}`,
		// No error field and no token: still a failed exchange.
		`{"error":"","access_token":""}`,
	}
	for _, body := range bodies {
		a, _ := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		pair, err := a.RefreshToken(context.Background(), "garbage", 424242)
		assert.Nil(t, pair, "body %s", body)

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr, "body %s", body)
	}
}
