package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Signature computes the hex-encoded HMAC-SHA-512 of the raw request body
// with the account secret key, the scheme Paystack uses for the
// X-Paystack-Signature header.
func Signature(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether header matches the signature of body.
func VerifySignature(secret string, body []byte, header string) bool {
	return Signature(secret, body) == header
}
