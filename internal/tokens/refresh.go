package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// RefreshTTL is fixed: no sliding renewal, no rotation on use.
const RefreshTTL = 7 * 24 * time.Hour

// NewRefreshToken returns 64 random bytes as base64. The value is opaque to
// clients and only meaningful as an exact-match lookup key in the store.
func NewRefreshToken() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
