package phonenumber

import (
	"fmt"
	"strings"
)

// ErrInvalidPhoneNumber is returned when a raw input cannot be normalized
// without guessing. Delivery requests carrying such a contact are rejected
// before any network call.
type ErrInvalidPhoneNumber struct {
	Raw string
}

func (e *ErrInvalidPhoneNumber) Error() string {
	return fmt.Sprintf("invalid Philippine mobile number: %q", e.Raw)
}

// Normalize converts a loosely formatted Philippine mobile number into the
// canonical form required by the delivery provider: "+63" followed by
// exactly 10 digits.
//
// Accepted input shapes:
//
//	09171234567   local format with trunk prefix
//	639171234567  country code without plus
//	+639171234567 already canonical
//	9171234567    bare 10-digit subscriber number
//	171234567     bare 9-digit subscriber number (leading 9 implied)
func Normalize(raw string) (string, error) {
	digits := stripSeparators(raw)
	if digits == "" || !isNumeric(digits) {
		return "", &ErrInvalidPhoneNumber{Raw: raw}
	}

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "09"):
		return "+63" + digits[1:], nil
	case len(digits) == 12 && strings.HasPrefix(digits, "639"):
		return "+" + digits, nil
	case len(digits) == 10 && strings.HasPrefix(digits, "9"):
		return "+63" + digits, nil
	case len(digits) == 9:
		return "+639" + digits, nil
	}

	return "", &ErrInvalidPhoneNumber{Raw: raw}
}

// stripSeparators removes common formatting characters and a single leading
// plus sign. Anything else is left in place so validation can fail closed.
func stripSeparators(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	for _, sep := range []string{" ", "-", "(", ")", "."} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
