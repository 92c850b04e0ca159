package lalamove

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed stop, contact, or coordinate detected
// before any network call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ProviderError is a Lalamove response with status >= 400. Details carries
// the individual error entries from the response body, when present.
type ProviderError struct {
	Status  int
	Message string
	Details []string
}

func (e *ProviderError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("lalamove: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("lalamove: status %d: %s (%s)", e.Status, e.Message, strings.Join(e.Details, "; "))
}

// IsConfigurationIssue reports whether the error points at a bad market or
// credential setup rather than a problem with the specific request. The
// orchestrator treats these as non-fatal so order placement can proceed
// without a delivery.
func (e *ProviderError) IsConfigurationIssue() bool {
	if e.Status == 401 || e.Status == 403 {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "invalid market")
}

// TransportError wraps a network failure or timeout while talking to the
// provider. The request may or may not have reached Lalamove.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lalamove: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
