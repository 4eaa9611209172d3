package memscan

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DefaultAlignment returns the alignment a scan should step by for a needle
// of the given width, per spec.md §4.3: the needle width itself when that
// width is a power of two no greater than 8 (the natural alignment of the
// scalar widths the Core Value Model supports), else 1 for byte patterns of
// arbitrary length.
func DefaultAlignment(needleWidth int) int {
	if needleWidth > 0 && needleWidth <= 8 && needleWidth&(needleWidth-1) == 0 {
		return needleWidth
	}
	return 1
}

// SearchOffsets returns every offset o in haystack where
// haystack[o:o+len(needle)] == needle and o % alignment == 0, in ascending
// order. It is a naive forward scan with early skipping by alignment and no
// preprocessing table (spec.md §4.3), the function the Scan Engine's Find
// calls for every readable page.
func SearchOffsets(haystack, needle []byte, alignment int) []uint32 {
	if alignment <= 0 {
		alignment = 1
	}
	n := len(needle)
	if n == 0 || n > len(haystack) {
		return nil
	}
	var offsets []uint32
	last := len(haystack) - n
	for o := 0; o <= last; o += alignment {
		if bytesEqual(haystack[o:o+n], needle) {
			offsets = append(offsets, uint32(o))
		}
	}
	return offsets
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StringToAOBPattern converts a search string to an AOB (array-of-bytes)
// pattern string, padded to at least minLength bytes with wildcards. A '?'
// byte in searchStr becomes a wildcard token. This is the teacher's own
// pattern-authoring helper (kept per SPEC_FULL.md's supplemented-features
// list), independent of SearchOffsets above.
func StringToAOBPattern(searchStr string, minLength int) string {
	if searchStr == "" {
		return ""
	}

	var builder strings.Builder
	raw := []byte(searchStr)
	patternLength := len(raw)
	if minLength > patternLength {
		patternLength = minLength
	}

	for i := 0; i < patternLength; i++ {
		if i > 0 {
			builder.WriteString(" ")
		}
		if i < len(raw) {
			b := raw[i]
			if b == '?' {
				builder.WriteString("??")
			} else {
				builder.WriteString(fmt.Sprintf("%02X", b))
			}
		} else {
			builder.WriteString("??")
		}
	}

	return builder.String()
}

// AOBPattern is a parsed array-of-bytes pattern with per-byte wildcards,
// for callers that know a value's shape but not every byte (e.g. a struct
// with don't-care padding). It does not participate in the Scan Engine's
// Find/filter pipeline, which uses SearchOffsets; it is a standalone search
// utility kept from the teacher's pattern.go.
type AOBPattern struct {
	bytes    []byte
	wildcard []bool
}

// ParseAOBPattern parses a space-separated pattern of two-hex-digit byte
// tokens and "??" wildcard tokens, e.g. "57 65 ?? 68".
func ParseAOBPattern(pattern string) (*AOBPattern, error) {
	parts := strings.Fields(pattern)
	if len(parts) == 0 {
		return nil, errors.New("memscan: empty AOB pattern")
	}

	bs := make([]byte, len(parts))
	wc := make([]bool, len(parts))
	for i, part := range parts {
		if part == "??" {
			wc[i] = true
			continue
		}
		decoded, err := hex.DecodeString(part)
		if err != nil || len(decoded) != 1 {
			return nil, fmt.Errorf("memscan: invalid AOB token %q", part)
		}
		bs[i] = decoded[0]
	}
	return &AOBPattern{bytes: bs, wildcard: wc}, nil
}

// Len returns the pattern's length in bytes.
func (p *AOBPattern) Len() int {
	return len(p.bytes)
}

// FindAll returns every offset in data where the pattern matches, wildcard
// bytes always matching, optionally ASCII case-insensitively.
func (p *AOBPattern) FindAll(data []byte, ignoreCase bool) []int {
	n := len(p.bytes)
	if n == 0 || n > len(data) {
		return nil
	}
	var matches []int
	for i := 0; i <= len(data)-n; i++ {
		if p.matchesAt(data, i, ignoreCase) {
			matches = append(matches, i)
		}
	}
	return matches
}

func (p *AOBPattern) matchesAt(data []byte, pos int, ignoreCase bool) bool {
	for j := 0; j < len(p.bytes); j++ {
		if p.wildcard[j] {
			continue
		}
		d := data[pos+j]
		b := p.bytes[j]
		if ignoreCase {
			if 'a' <= b && b <= 'z' {
				b -= 'a' - 'A'
			}
			if 'a' <= d && d <= 'z' {
				d -= 'a' - 'A'
			}
		}
		if d != b {
			return false
		}
	}
	return true
}
