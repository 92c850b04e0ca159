package util

import (
	"fmt"
	"strings"
)

// DeliveryReference builds the metadata reference attached to a provider
// order. It is derived from the marketplace order code alone, so a retried
// dispatch for the same order carries the same reference and the provider
// can deduplicate it.
func DeliveryReference(orderCode string) string {
	return fmt.Sprintf("manokmart-%s", strings.ToUpper(orderCode))
}
