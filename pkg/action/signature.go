package action

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sign returns the lowercase hex HMAC-SHA256 of data keyed with secret.
func Sign(data, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(data))

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is exactly the hex HMAC-SHA256 of the raw
// data under secret. The comparison is case-sensitive and constant time.
// Verify must run on the raw serialized data, before any decoding.
func Verify(data, signature, secret string) bool {
	expected := Sign(data, secret)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
