package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemesRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"sci-fi"},
		{"sci-fi", "politics"},
		{"friendship", "magic", "war"},
		{"good, evil", "power"},
		{"  padded  ", "x"},
		{"[bracketed]"},
		{""},
	}

	for _, themes := range cases {
		encoded := EncodeThemes(themes)
		decoded, err := DecodeThemes(encoded)
		require.NoError(t, err, "encoded=%q", encoded)
		assert.Equal(t, themes, decoded, "encoded=%q", encoded)
	}
}

func TestEncodeThemes_CommaJoined(t *testing.T) {
	assert.Equal(t, "sci-fi, politics", EncodeThemes([]string{"sci-fi", "politics"}))
	assert.Equal(t, "", EncodeThemes(nil))
}

func TestDecodeThemes_Malformed(t *testing.T) {
	themes, err := DecodeThemes(`["unterminated`)
	assert.ErrorIs(t, err, ErrMalformedMetadata)
	assert.Equal(t, []string{`["unterminated`}, themes)
}

func TestDecodeThemes_JSONArray(t *testing.T) {
	themes, err := DecodeThemes(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, themes)
}
