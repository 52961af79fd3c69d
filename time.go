package jwt

import (
	"encoding/json"
	"fmt"
	"time"
)

// NumericDate is a claim timestamp carried on the wire as integer Unix
// seconds, as RFC 7519 defines for "exp", "nbf" and "iat".
type NumericDate struct {
	time.Time
}

// NewNumericDate creates a NumericDate from a time.Time.
func NewNumericDate(t time.Time) NumericDate {
	return NumericDate{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (date NumericDate) MarshalJSON() ([]byte, error) {
	if date.Time.IsZero() {
		return []byte("null"), nil
	}
	return fmt.Appendf(nil, "%d", date.Unix()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (date *NumericDate) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		date.Time = time.Time{}
		return nil
	}

	var unix int64
	if _, err := fmt.Sscanf(string(b), "%d", &unix); err != nil {
		return fmt.Errorf("invalid time format: expected unix timestamp, got %s", b)
	}
	if unix < 0 || unix > 253402300799 {
		return fmt.Errorf("invalid unix timestamp: %d", unix)
	}
	date.Time = time.Unix(unix, 0).UTC()
	return nil
}

// numericClaim extracts an integer Unix timestamp from a decoded claim
// value. JSON decoding yields float64; claims built in-process may carry
// integer types or NumericDate. Anything else is treated as absent.
func numericClaim(claims Claims, name string) (int64, bool) {
	v, present := claims[name]
	if !present {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		unix, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return unix, true
	case NumericDate:
		if n.IsZero() {
			return 0, false
		}
		return n.Unix(), true
	default:
		return 0, false
	}
}
