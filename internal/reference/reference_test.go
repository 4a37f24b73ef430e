package reference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	now := time.UnixMilli(1712345678901)

	tests := []struct {
		name       string
		donationID string
		want       string
	}{
		{
			name:       "hex object id truncated and upper cased",
			donationID: "ab12cd34ef56ab78cd90ef12",
			want:       "DON-AB12CD34-45678901",
		},
		{
			name:       "uuid with hyphens stripped",
			donationID: "ab12cd34-ef56-ab78-cd90-ef1234567890",
			want:       "DON-AB12CD34-45678901",
		},
		{
			name:       "numeric id passes through verbatim",
			donationID: "42",
			want:       "DON-42-45678901",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeAt(tt.donationID, now)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 25, "reference must fit the gateway field limit")
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "well formed reference", ref: "DON-AB12CD34-56789012", want: "AB12CD34"},
		{name: "numeric short id", ref: "DON-42-56789012", want: "42"},
		{name: "missing prefix", ref: "PAY-AB12CD34-56789012", want: ""},
		{name: "missing timestamp", ref: "DON-AB12CD34", want: ""},
		{name: "empty input", ref: "", want: ""},
		{name: "garbage", ref: "not-a-reference-at-all!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.ref))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ids := []string{
		"68d6aadf4ee098645ac87d5d",
		"000000000000000000000001",
		"1234",
	}

	for _, id := range ids {
		ref := Encode(id)
		short := Decode(ref)
		assert.True(t, MatchesDonation(short, id), "decode(encode(%s)) = %s should match", id, short)
	}
}
