package lalamove

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func hexHMACSHA256(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignRequest(t *testing.T) {
	const (
		secret    = "sk_test_secret"
		timestamp = "1639999999999"
		body      = `{"data":{"serviceType":"MOTORCYCLE"}}`
	)

	got := SignRequest(secret, timestamp, "POST", "/v3/quotations", body)

	want := hexHMACSHA256(secret, "1639999999999\r\nPOST\r\n/v3/quotations\r\n\r\n"+body)
	require.Equal(t, want, got)

	// Pure: repeated calls over the same inputs produce the same digest.
	require.Equal(t, got, SignRequest(secret, timestamp, "POST", "/v3/quotations", body))
}

func TestSignRequestUppercasesMethod(t *testing.T) {
	const secret = "sk_test_secret"

	lower := SignRequest(secret, "1", "get", "/v3/orders/123", "")
	upper := SignRequest(secret, "1", "GET", "/v3/orders/123", "")
	require.Equal(t, upper, lower)
}

func TestSignRequestEmptyBody(t *testing.T) {
	const secret = "sk_test_secret"

	got := SignRequest(secret, "42", "PUT", "/v3/orders/123/cancel", "")
	want := hexHMACSHA256(secret, "42\r\nPUT\r\n/v3/orders/123/cancel\r\n\r\n")
	require.Equal(t, want, got)
}

func TestAuthorizationHeader(t *testing.T) {
	require.Equal(t,
		"hmac pk_test_key:1639999999999:abc123",
		AuthorizationHeader("pk_test_key", "1639999999999", "abc123"))
}
