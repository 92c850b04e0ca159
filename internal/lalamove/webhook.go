package lalamove

import (
	"crypto/hmac"

	"github.com/zpmep/hmacutil"
)

// WebhookSignatureHeader is the header Lalamove signs its callbacks with.
const WebhookSignatureHeader = "X-Lalamove-Signature"

// WebhookPayload is the body of an inbound provider callback.
type WebhookPayload struct {
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	OrderID  string       `json:"orderId"`
	Status   string       `json:"status"`
	Driver   *Driver      `json:"driver,omitempty"`
	Location *Coordinates `json:"location,omitempty"`
	Reason   string       `json:"reason,omitempty"`
}

// VerifyWebhookSignature recomputes the HMAC-SHA256 of the raw request body
// and compares it against the signature header in constant time. A missing
// or blank header is unverified, never trusted by default.
func VerifyWebhookSignature(secret, signature string, rawBody []byte) bool {
	if signature == "" {
		return false
	}

	expected := hmacutil.HexStringEncode(hmacutil.SHA256, secret, string(rawBody))
	return hmac.Equal([]byte(expected), []byte(signature))
}
