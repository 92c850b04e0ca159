package phonenumber

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "local format with trunk prefix", raw: "09171234567", want: "+639171234567"},
		{name: "country code without plus", raw: "639171234567", want: "+639171234567"},
		{name: "already canonical", raw: "+639171234567", want: "+639171234567"},
		{name: "bare subscriber number", raw: "9171234567", want: "+639171234567"},
		{name: "bare nine digit subscriber number", raw: "171234567", want: "+639171234567"},
		{name: "spaces and dashes", raw: "0917 123-4567", want: "+639171234567"},
		{name: "parenthesized area prefix", raw: "(0917) 123 4567", want: "+639171234567"},
		{name: "letters rejected", raw: "abc", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
		{name: "too short rejected", raw: "12345", wantErr: true},
		{name: "too long rejected", raw: "6391712345678", wantErr: true},
		{name: "landline prefix rejected", raw: "0281234567", wantErr: true},
		{name: "embedded letters rejected", raw: "0917x1234567", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				var invalidErr *ErrInvalidPhoneNumber
				require.ErrorAs(t, err, &invalidErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
