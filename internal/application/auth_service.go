package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ErrNotAuthenticated is returned when no shop session exists for the
// caller's session id.
var ErrNotAuthenticated = errors.New("not authenticated with shopee")

// Sessions outlive the access token so the refresh token stays usable.
const sessionTTL = 30 * 24 * time.Hour

// refreshLeeway is how close to expiry a stored access token may get
// before Session refreshes it.
const refreshLeeway = time.Minute

// AuthService owns the token lifecycle around the exchanger: it persists
// sessions, decides when to refresh, and never retries a failed exchange.
type AuthService struct {
	exchanger ports.TokenExchanger
	sessions  ports.SessionStore
	logger    zerolog.Logger
}

// NewAuthService creates the OAuth session service.
func NewAuthService(exchanger ports.TokenExchanger, sessions ports.SessionStore, logger zerolog.Logger) *AuthService {
	return &AuthService{
		exchanger: exchanger,
		sessions:  sessions,
		logger:    logger,
	}
}

// BeginAuthURL builds the authorization URL the merchant is redirected to.
func (s *AuthService) BeginAuthURL(redirectURL string) string {
	return s.exchanger.AuthURL(redirectURL)
}

// CompleteAuth exchanges the callback code and persists the resulting shop
// session under a fresh opaque session id.
func (s *AuthService) CompleteAuth(ctx context.Context, code string, shopID int64) (string, error) {
	pair, err := s.exchanger.ExchangeCode(ctx, code, shopID)
	if err != nil {
		return "", err
	}

	sid, err := newSessionID()
	if err != nil {
		return "", err
	}
	sess := domain.ShopSession{
		ShopID:       shopID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(pair.ExpireIn) * time.Second),
	}
	if err := s.sessions.Set(ctx, sid, sess, sessionTTL); err != nil {
		return "", err
	}

	s.logger.Info().Int64("shop_id", shopID).Msg("Shop authorized")
	return sid, nil
}

// Session loads the shop session for sid, refreshing the access token once
// when it is about to expire. A failed refresh surfaces as-is; the caller
// sends the merchant back through authorization.
func (s *AuthService) Session(ctx context.Context, sid string) (*domain.ShopSession, error) {
	if sid == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if !sess.ExpiresWithin(refreshLeeway) {
		return sess, nil
	}

	pair, err := s.exchanger.RefreshToken(ctx, sess.RefreshToken, sess.ShopID)
	if err != nil {
		return nil, err
	}
	refreshed := domain.ShopSession{
		ShopID:       sess.ShopID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(pair.ExpireIn) * time.Second),
	}
	if err := s.sessions.Set(ctx, sid, refreshed, sessionTTL); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("shop_id", sess.ShopID).Msg("Refreshed shop session")
	return &refreshed, nil
}

// Logout drops the stored session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sid)
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
