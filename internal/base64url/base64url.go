// Package base64url implements the unpadded base64url text codec used for
// token segments: RFC 4648 §5 alphabet, no padding, no line wrapping.
package base64url

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode converts raw bytes to base64url text without padding.
func Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode converts base64url text back to raw bytes. Interior whitespace and
// trailing padding are tolerated; any other malformed input fails with a
// decode error. Callers needing the segment padding rules (length%4
// handling) apply them before calling.
func Decode(s string) ([]byte, error) {
	s = stripWhitespace(s)
	s = strings.TrimRight(s, "=")

	buf := make([]byte, base64.RawURLEncoding.DecodedLen(len(s)))
	n, err := base64.RawURLEncoding.Decode(buf, []byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64url: %w", err)
	}
	return buf[:n], nil
}

func stripWhitespace(s string) string {
	if !strings.ContainsAny(s, " \t\n\r") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Valid reports whether s contains only base64url alphabet characters.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_') {
			return false
		}
	}
	return true
}
