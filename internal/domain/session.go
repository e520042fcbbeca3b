package domain

import "time"

// ShopSession is the per-merchant authorization state obtained via OAuth.
// The signed client consumes it as plain call parameters; persistence is
// the session store's concern.
type ShopSession struct {
	ShopID       int64     `json:"shop_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExpiresWithin reports whether the access token expires inside d from now.
func (s ShopSession) ExpiresWithin(d time.Duration) bool {
	return !s.ExpiresAt.After(time.Now().Add(d))
}

// TokenPair is the result of an OAuth code or refresh exchange.
type TokenPair struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpireIn     int64   `json:"expire_in"`
	ShopIDList   []int64 `json:"shop_id_list,omitempty"`
}
