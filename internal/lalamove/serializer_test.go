package lalamove

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalJSONDeterminism(t *testing.T) {
	// The same logical payload expressed as a struct and as a map must
	// serialize to identical bytes regardless of field or insertion order.
	type payload struct {
		ServiceType string   `json:"serviceType"`
		Language    string   `json:"language"`
		Stops       []string `json:"stops"`
	}

	asStruct, err := CanonicalJSON(payload{
		ServiceType: "MOTORCYCLE",
		Language:    "en_PH",
		Stops:       []string{"a", "b"},
	})
	require.NoError(t, err)

	asMap, err := CanonicalJSON(map[string]any{
		"stops":       []string{"a", "b"},
		"language":    "en_PH",
		"serviceType": "MOTORCYCLE",
	})
	require.NoError(t, err)

	require.Equal(t, asStruct, asMap)
	require.Equal(t, `{"language":"en_PH","serviceType":"MOTORCYCLE","stops":["a","b"]}`, asStruct)
}

func TestCanonicalJSONOmitsEmptyValues(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{
		"a": nil,
		"b": "",
		"c": map[string]any{},
		"d": []any{1, nil, 2},
		"e": []any{},
	})
	require.NoError(t, err)
	require.Equal(t, `{"d":[1,2]}`, out)
}

func TestCanonicalJSONSortsNestedKeys(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{
		"data": map[string]any{
			"stops": []any{
				map[string]any{"coordinates": map[string]any{"lng": "121.0565", "lat": "14.5838"}, "address": "Mandaluyong"},
			},
			"language":    "en_PH",
			"serviceType": "MOTORCYCLE",
		},
	})
	require.NoError(t, err)
	require.Equal(t,
		`{"data":{"language":"en_PH","serviceType":"MOTORCYCLE","stops":[{"address":"Mandaluyong","coordinates":{"lat":"14.5838","lng":"121.0565"}}]}}`,
		out)
}

func TestCanonicalJSONEmptyPayload(t *testing.T) {
	// A body that cleans down to nothing must serialize to "" rather than
	// "{}" so that empty-body requests sign correctly.
	for _, payload := range []any{
		nil,
		map[string]any{},
		map[string]any{"a": nil, "b": "", "c": map[string]any{"d": ""}},
	} {
		out, err := CanonicalJSON(payload)
		require.NoError(t, err)
		require.Equal(t, "", out)
	}
}

func TestCanonicalJSONPreservesNumbers(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{"total": 129.5, "count": 3, "flag": false})
	require.NoError(t, err)
	require.Equal(t, `{"count":3,"flag":false,"total":129.5}`, out)
}
