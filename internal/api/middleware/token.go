package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Public lookup tokens rotate every window; a token stays valid through the
// window after the one it was issued in, so a form loaded near the boundary
// still submits.
const tokenWindow = 12 * time.Hour

// TokenIssuer mints and verifies the anti-abuse tokens handed to the public
// lookup form. Tokens are HMAC-SHA256 over the current time window, so no
// server-side state is needed.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// Issue returns the token for the current window.
func (t *TokenIssuer) Issue() string {
	return t.tokenFor(t.window())
}

// Verify accepts tokens from the current and the previous window.
func (t *TokenIssuer) Verify(token string) bool {
	w := t.window()
	for _, candidate := range []string{t.tokenFor(w), t.tokenFor(w - 1)} {
		if hmac.Equal([]byte(candidate), []byte(token)) {
			return true
		}
	}
	return false
}

func (t *TokenIssuer) window() int64 {
	return t.now().Unix() / int64(tokenWindow.Seconds())
}

func (t *TokenIssuer) tokenFor(window int64) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
