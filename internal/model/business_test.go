package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_StableAcrossVariants(t *testing.T) {
	a := BusinessRecord{Name: "Maple Leaf Imports Ltd.", Street: "123 King St. W"}
	b := BusinessRecord{Name: "MAPLE LEAF IMPORTS LTD", Street: "123 King St W"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_DistinguishesAddresses(t *testing.T) {
	a := BusinessRecord{Name: "Acme Co", Street: "1 First Ave"}
	b := BusinessRecord{Name: "Acme Co", Street: "2 First Ave"}

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestAddress_SkipsEmptyParts(t *testing.T) {
	b := BusinessRecord{Street: "10 Main St", City: "Toronto", Postal: "M5V 1A1"}
	assert.Equal(t, "10 Main St, Toronto, M5V 1A1", b.Address())
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{"10-50", Range{Min: 10, Max: 50, Known: true}},
		{"500+", Range{Min: 500, Known: true}},
		{"unknown", UnknownRange},
		{"", UnknownRange},
		{"25", Range{Min: 25, Max: 25, Known: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	for _, in := range []string{"ten-fifty", "50-10", "10-"} {
		_, err := ParseRange(in)
		assert.Error(t, err, in)
	}
}

func TestRangeString_UnknownNeverZero(t *testing.T) {
	assert.Equal(t, "unknown", UnknownRange.String())
	assert.Equal(t, "10-50", Range{Min: 10, Max: 50, Known: true}.String())
	assert.Equal(t, "500+", Range{Min: 500, Known: true}.String())
}
