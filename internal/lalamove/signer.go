package lalamove

import (
	"fmt"
	"strings"

	"github.com/zpmep/hmacutil"
)

// signingString composes the exact string Lalamove expects to be signed:
// the millisecond timestamp, uppercased method, and request path, with two
// CRLF-delimited blank sections separating the header fields from the body.
// The body here must be the same canonical string that goes on the wire.
func signingString(timestamp, method, path, body string) string {
	return fmt.Sprintf("%s\r\n%s\r\n%s\r\n\r\n%s", timestamp, strings.ToUpper(method), path, body)
}

// SignRequest computes the hex HMAC-SHA256 signature over the signing string.
func SignRequest(secret, timestamp, method, path, body string) string {
	return hmacutil.HexStringEncode(hmacutil.SHA256, secret, signingString(timestamp, method, path, body))
}

// AuthorizationHeader builds the value for the Authorization header,
// "hmac {apiKey}:{timestamp}:{signature}".
func AuthorizationHeader(apiKey, timestamp, signature string) string {
	return fmt.Sprintf("hmac %s:%s:%s", apiKey, timestamp, signature)
}
