package shopee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer computes partner-API request signatures. The scheme is
// HMAC-SHA256 over the concatenation, without separators, of
// partner id, path, timestamp and, for authenticated calls, the access
// token and shop id, keyed by the partner key. The digest is lowercase hex.
// The marketplace recomputes the same string server-side, so the field
// order and the conditional token/shop inclusion must match exactly.
type Signer struct {
	partnerID  int64
	partnerKey []byte
}

// NewSigner creates a signer for one partner identity.
func NewSigner(partnerID int64, partnerKey string) *Signer {
	return &Signer{
		partnerID:  partnerID,
		partnerKey: []byte(partnerKey),
	}
}

// PartnerID returns the partner id the signer signs for.
func (s *Signer) PartnerID() int64 {
	return s.partnerID
}

// Sign computes the public signature used before a shop session exists,
// such as for the authorization URL and the token exchange endpoints.
func (s *Signer) Sign(path string, timestamp int64) string {
	return s.digest(fmt.Sprintf("%d%s%d", s.partnerID, path, timestamp))
}

// SignWithSession computes the authenticated signature that covers the
// access token and shop id.
func (s *Signer) SignWithSession(path string, timestamp int64, accessToken string, shopID int64) string {
	return s.digest(fmt.Sprintf("%d%s%d%s%d", s.partnerID, path, timestamp, accessToken, shopID))
}

func (s *Signer) digest(base string) string {
	mac := hmac.New(sha256.New, s.partnerKey)
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}
