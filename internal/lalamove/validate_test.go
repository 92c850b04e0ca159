package lalamove

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCoordinate(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		axis    string
		wantErr bool
	}{
		{name: "lat at upper boundary", value: "90", axis: "lat"},
		{name: "lat just past upper boundary", value: "90.0001", axis: "lat", wantErr: true},
		{name: "lat at lower boundary", value: "-90", axis: "lat"},
		{name: "lng at lower boundary", value: "-180", axis: "lng"},
		{name: "lng at upper boundary", value: "180", axis: "lng"},
		{name: "lng just past upper boundary", value: "180.0001", axis: "lng", wantErr: true},
		{name: "lng within lat range limits", value: "121.0565", axis: "lng"},
		{name: "lat beyond 90 even though valid lng", value: "121.0565", axis: "lat", wantErr: true},
		{name: "not a number", value: "north", axis: "lat", wantErr: true},
		{name: "empty", value: "", axis: "lng", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCoordinate(tc.value, tc.axis)
			if tc.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateStop(t *testing.T) {
	valid := Stop{
		Coordinates: Coordinates{Lat: "14.5838", Lng: "121.0565"},
		Address:     "  624 Shaw Blvd, Mandaluyong  ",
		Contacts:    []Contact{{Name: "Aling Nena", Phone: "09171234567"}},
	}

	t.Run("normalizes address and contact phone", func(t *testing.T) {
		got, err := validateStop(valid, true)
		require.NoError(t, err)
		require.Equal(t, "624 Shaw Blvd, Mandaluyong", got.Address)
		require.Equal(t, "+639171234567", got.Contacts[0].Phone)
	})

	t.Run("empty address rejected", func(t *testing.T) {
		stop := valid
		stop.Address = "   "
		_, err := validateStop(stop, true)
		require.Error(t, err)
	})

	t.Run("malformed contact phone rejects the stop", func(t *testing.T) {
		stop := valid
		stop.Contacts = []Contact{{Name: "Aling Nena", Phone: "not-a-phone"}}
		_, err := validateStop(stop, true)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "contact.phone", validationErr.Field)
	})

	t.Run("blank contact name rejected", func(t *testing.T) {
		stop := valid
		stop.Contacts = []Contact{{Name: " ", Phone: "09171234567"}}
		_, err := validateStop(stop, true)
		require.Error(t, err)
	})

	t.Run("contacts optional at quote time", func(t *testing.T) {
		stop := valid
		stop.Contacts = nil
		_, err := validateStop(stop, false)
		require.NoError(t, err)
	})

	t.Run("contacts required at order time", func(t *testing.T) {
		stop := valid
		stop.Contacts = nil
		_, err := validateStop(stop, true)
		require.Error(t, err)
	})
}

func TestValidateStopsNeedsPickupAndDropoff(t *testing.T) {
	single := []Stop{{
		Coordinates: Coordinates{Lat: "14.5838", Lng: "121.0565"},
		Address:     "Mandaluyong",
	}}

	_, err := validateStops(single, false)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "stops", validationErr.Field)
}
