package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the header carrying the delivery signature.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// ComputeSignature returns the expected signature header value for a raw
// payload body: "sha256=" + hex(HMAC-SHA256(secret, body)).
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a provided X-Hub-Signature-256 value against the
// raw request body using constant-time comparison. Returns false on a
// missing or malformed header.
func VerifySignature(secret string, body []byte, provided string) bool {
	if !strings.HasPrefix(provided, signaturePrefix) {
		return false
	}

	expected, err := hex.DecodeString(strings.TrimPrefix(provided, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
