package memscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAlignment(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1, 1},
		{2, 2},
		{4, 4},
		{8, 8},
		{3, 1},
		{16, 1},
		{0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultAlignment(tt.width))
	}
}

func TestSearchOffsetsFindsAllAlignedMatches(t *testing.T) {
	haystack := []byte{0x00, 0x00, 0x00, 0x00, 0x39, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	needle := []byte{0x39, 0x05, 0x00, 0x00}

	offsets := SearchOffsets(haystack, needle, 4)
	assert.Equal(t, []uint32{4}, offsets)
}

func TestSearchOffsetsEmptyNeedle(t *testing.T) {
	assert.Nil(t, SearchOffsets([]byte{1, 2, 3}, nil, 1))
}

func TestSearchOffsetsNeedleLongerThanHaystack(t *testing.T) {
	assert.Nil(t, SearchOffsets([]byte{1}, []byte{1, 2}, 1))
}

func TestSearchOffsetsOverlappingMatches(t *testing.T) {
	haystack := []byte{0xAA, 0xAA, 0xAA}
	offsets := SearchOffsets(haystack, []byte{0xAA, 0xAA}, 1)
	assert.Equal(t, []uint32{0, 1}, offsets)
}

func TestStringToAOBPattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		length   int
		expected string
	}{
		{"basic string", "WeChat", 6, "57 65 43 68 61 74"},
		{"string with padding", "WeChat", 10, "57 65 43 68 61 74 ?? ?? ?? ??"},
		{"string with wildcard", "We?Chat", 7, "57 65 ?? 43 68 61 74"},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StringToAOBPattern(tt.input, tt.length)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAOBPatternFindAll(t *testing.T) {
	pattern, err := ParseAOBPattern("57 65 ?? 68 61 74")
	require.NoError(t, err)
	assert.Equal(t, 6, pattern.Len())

	data := []byte("Hello WeChat World")
	matches := pattern.FindAll(data, false)
	require.Len(t, matches, 1)
	assert.Equal(t, 6, matches[0])

	caseInsensitive := pattern.FindAll([]byte("Hello wechat World"), true)
	assert.Len(t, caseInsensitive, 1)
}

func TestParseAOBPatternInvalidToken(t *testing.T) {
	_, err := ParseAOBPattern("ZZ")
	assert.Error(t, err)
}

func TestParseAOBPatternEmpty(t *testing.T) {
	_, err := ParseAOBPattern("")
	assert.Error(t, err)
}
