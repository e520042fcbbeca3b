package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/rs/zerolog"
)

const (
	pathAuthPartner  = "/api/v2/shop/auth_partner"
	pathTokenGet     = "/api/v2/auth/token/get"
	pathTokenRefresh = "/api/v2/auth/access_token/get"
)

type auth struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewAuth creates the OAuth token exchanger against the production host.
func NewAuth(signer *Signer, logger zerolog.Logger) ports.TokenExchanger {
	return NewAuthWithOptions(signer, DefaultBaseURL, nil, logger)
}

// NewAuthWithOptions creates the exchanger against a specific base URL,
// optionally with a caller-supplied http.Client.
func NewAuthWithOptions(signer *Signer, baseURL string, httpClient *http.Client, logger zerolog.Logger) ports.TokenExchanger {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &auth{
		baseURL:    baseURL,
		signer:     signer,
		httpClient: httpClient,
		logger:     logger,
	}
}

// AuthURL builds the partner authorization URL. No shop session exists yet,
// so the signature covers only partner id, path and timestamp.
func (a *auth) AuthURL(redirectURL string) string {
	timestamp := time.Now().Unix()
	sign := a.signer.Sign(pathAuthPartner, timestamp)

	q := url.Values{}
	q.Set("partner_id", strconv.FormatInt(a.signer.PartnerID(), 10))
	q.Set("timestamp", strconv.FormatInt(timestamp, 10))
	q.Set("sign", sign)
	q.Set("redirect", redirectURL)
	return a.baseURL + pathAuthPartner + "?" + q.Encode()
}

func (a *auth) ExchangeCode(ctx context.Context, code string, shopID int64) (*domain.TokenPair, error) {
	body := map[string]any{
		"code":       code,
		"shop_id":    shopID,
		"partner_id": a.signer.PartnerID(),
	}
	pair, err := a.exchange(ctx, "exchange code", pathTokenGet, body)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Int64("shop_id", shopID).Msg("Exchanged authorization code for access token")
	return pair, nil
}

func (a *auth) RefreshToken(ctx context.Context, refreshToken string, shopID int64) (*domain.TokenPair, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
		"shop_id":       shopID,
		"partner_id":    a.signer.PartnerID(),
	}
	pair, err := a.exchange(ctx, "refresh token", pathTokenRefresh, body)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Int64("shop_id", shopID).Msg("Refreshed access token")
	return pair, nil
}

// exchange performs one token endpoint call. Token endpoints use the
// public signature: no access token or shop id exists to cover yet.
func (a *auth) exchange(ctx context.Context, op, path string, body map[string]any) (*domain.TokenPair, error) {
	timestamp := time.Now().Unix()
	sign := a.signer.Sign(path, timestamp)

	q := url.Values{}
	q.Set("partner_id", strconv.FormatInt(a.signer.PartnerID(), 10))
	q.Set("timestamp", strconv.FormatInt(timestamp, 10))
	q.Set("sign", sign)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path+"?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Op: op, Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Op: op, Detail: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Op: op, Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, string(raw))}
	}

	var out struct {
		envelope
		domain.TokenPair
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &AuthError{Op: op, Detail: fmt.Sprintf("decode response: %v", err)}
	}
	if out.Error != "" {
		detail := out.Message
		if detail == "" {
			detail = out.Error
		}
		return nil, &AuthError{Op: op, Detail: detail}
	}
	// An empty token with no error field is still a failed exchange.
	if out.AccessToken == "" {
		return nil, &AuthError{Op: op, Detail: "response carried no access token"}
	}
	return &out.TokenPair, nil
}
