package lalamove

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalJSON renders a payload as the exact JSON string that is both
// signed and transmitted. Object keys are sorted at every nesting level and
// null, empty-string, and empty object/array values are dropped, so two
// logically equal payloads always produce byte-identical output regardless
// of struct field or map insertion order.
//
// A payload that cleans down to nothing serializes to the empty string, not
// "{}". Lalamove signs bodyless requests (GET, cancel) over an empty body
// section, and sending a literal "{}" would break the signature.
func CanonicalJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Re-decode into generic values with UseNumber so numeric literals
	// survive the round trip untouched.
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var generic any
	if err = decoder.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to decode payload: %w", err)
	}

	cleaned := cleanValue(generic)
	if cleaned == nil {
		return "", nil
	}

	// encoding/json writes map keys in sorted order, which gives us the
	// canonical key ordering for free.
	out, err := json.Marshal(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to marshal canonical payload: %w", err)
	}

	return string(out), nil
}

// cleanValue strips empty values recursively. It returns nil when the value
// itself should be omitted from the parent.
func cleanValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		cleaned := make(map[string]any, len(value))
		for key, child := range value {
			if c := cleanValue(child); c != nil {
				cleaned[key] = c
			}
		}
		if len(cleaned) == 0 {
			return nil
		}
		return cleaned
	case []any:
		cleaned := make([]any, 0, len(value))
		for _, child := range value {
			if c := cleanValue(child); c != nil {
				cleaned = append(cleaned, c)
			}
		}
		if len(cleaned) == 0 {
			return nil
		}
		return cleaned
	case string:
		if value == "" {
			return nil
		}
		return value
	case nil:
		return nil
	default:
		return value
	}
}
