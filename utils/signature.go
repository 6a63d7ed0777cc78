package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputeWebhookSignature builds the expected signature header value for a
// meeting webhook delivery: "v0=" + hex(HMAC-SHA256("v0:" + ts + ":" + body)).
func ComputeWebhookSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks a signature header against the expected
// value. Hex digits compare case-insensitively; comparison is constant time.
func VerifyWebhookSignature(secret, timestamp string, body []byte, header string) bool {
	expected := ComputeWebhookSignature(secret, timestamp, body)
	return hmac.Equal([]byte(strings.ToLower(header)), []byte(strings.ToLower(expected)))
}

// HashValidationToken answers an endpoint.url_validation challenge:
// hex(HMAC-SHA256(plainToken)) keyed with the shared webhook secret.
func HashValidationToken(secret, plainToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}
