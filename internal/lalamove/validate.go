package lalamove

import (
	"math"
	"strconv"
	"strings"

	"github.com/manokmart/manokmart-BE/internal/phonenumber"
)

func validateCoordinate(value string, axis string) error {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return &ValidationError{Field: axis, Message: "not a decimal number: " + value}
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return &ValidationError{Field: axis, Message: "not a finite number: " + value}
	}

	limit := 90.0
	if axis == "lng" {
		limit = 180.0
	}
	if parsed < -limit || parsed > limit {
		return &ValidationError{Field: axis, Message: "out of range: " + value}
	}

	return nil
}

func validateContact(contact Contact) (Contact, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return Contact{}, &ValidationError{Field: "contact.name", Message: "must not be empty"}
	}

	phone, err := phonenumber.Normalize(contact.Phone)
	if err != nil {
		return Contact{}, &ValidationError{Field: "contact.phone", Message: err.Error()}
	}

	contact.Phone = phone
	return contact, nil
}

// validateStop checks a stop and returns a normalized copy: trimmed address
// and canonical contact phone numbers. A stop failing any check rejects the
// whole request before the network is touched.
func validateStop(stop Stop, requireContacts bool) (Stop, error) {
	stop.Address = strings.TrimSpace(stop.Address)
	if stop.Address == "" {
		return Stop{}, &ValidationError{Field: "stop.address", Message: "must not be empty"}
	}
	if err := validateCoordinate(stop.Coordinates.Lat, "lat"); err != nil {
		return Stop{}, err
	}
	if err := validateCoordinate(stop.Coordinates.Lng, "lng"); err != nil {
		return Stop{}, err
	}

	if requireContacts && len(stop.Contacts) == 0 {
		return Stop{}, &ValidationError{Field: "stop.contacts", Message: "at least one contact is required"}
	}

	contacts := make([]Contact, len(stop.Contacts))
	for i, contact := range stop.Contacts {
		normalized, err := validateContact(contact)
		if err != nil {
			return Stop{}, err
		}
		contacts[i] = normalized
	}
	stop.Contacts = contacts

	return stop, nil
}

func validateStops(stops []Stop, requireContacts bool) ([]Stop, error) {
	if len(stops) < 2 {
		return nil, &ValidationError{Field: "stops", Message: "a route needs at least a pickup and a dropoff"}
	}

	validated := make([]Stop, len(stops))
	for i, stop := range stops {
		normalized, err := validateStop(stop, requireContacts)
		if err != nil {
			return nil, err
		}
		validated[i] = normalized
	}

	return validated, nil
}
