// Package token implements the three-part token structure: header and
// payload JSON carried as base64url segments, joined by dots, followed by
// the signature segment. The first two segments joined by a dot are the
// signing input, the exact byte sequence the signature covers.
package token

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signkit/jwt/internal/alg"
	"github.com/signkit/jwt/internal/base64url"
)

const (
	maxTokenLength   = 8192
	maxSegmentLength = 4096
)

var (
	ErrEmpty          = errors.New("empty token")
	ErrTooLarge       = fmt.Errorf("token too large: maximum %d characters allowed", maxTokenLength)
	ErrInvalidFormat  = errors.New("invalid token format: expected 3 dot-separated segments")
	ErrIllegalPadding = errors.New("illegal base64url segment length")
)

// EncodeHeader serializes header merged with the authoritative alg value
// into a base64url segment. The alg entry always wins over a caller
// supplied value.
func EncodeHeader(header map[string]any, algName string) (string, error) {
	merged := make(map[string]any, len(header)+1)
	for k, v := range header {
		merged[k] = v
	}
	merged["alg"] = algName

	raw, err := json.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	return base64url.Encode(raw), nil
}

// EncodePayload serializes the claims into a base64url segment.
func EncodePayload(payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return base64url.Encode(raw), nil
}

// SigningInput joins the header and payload segments with the separating
// dot.
func SigningInput(headerPart, payloadPart string) string {
	return headerPart + "." + payloadPart
}

// Assemble appends the signature segment to the signing input.
func Assemble(signingInput, signaturePart string) string {
	return signingInput + "." + signaturePart
}

// Split breaks a token into its three segments. Exactly three dot-separated
// parts are required.
func Split(tokenString string) (headerPart, payloadPart, signaturePart string, err error) {
	if len(tokenString) == 0 {
		return "", "", "", ErrEmpty
	}
	if len(tokenString) > maxTokenLength {
		return "", "", "", ErrTooLarge
	}

	first, second := -1, -1
	for i := 0; i < len(tokenString); i++ {
		if tokenString[i] != '.' {
			continue
		}
		switch {
		case first == -1:
			first = i
		case second == -1:
			second = i
		default:
			return "", "", "", ErrInvalidFormat
		}
	}
	if first == -1 || second == -1 {
		return "", "", "", ErrInvalidFormat
	}

	return tokenString[:first], tokenString[first+1 : second], tokenString[second+1:], nil
}

// DecodeSegment decodes a base64url JSON segment into a generic claim map.
// A segment whose length leaves a base64 remainder of 1 cannot be repadded
// and fails with ErrIllegalPadding. Every other failure mode (bad base64,
// invalid UTF-8, invalid JSON, non-object JSON) is soft: the result is a
// nil map and a nil error, and the caller decides what unparseable means.
func DecodeSegment(segment string) (map[string]any, error) {
	if len(segment) > maxSegmentLength {
		return nil, nil
	}
	if len(segment)%4 == 1 {
		return nil, ErrIllegalPadding
	}

	raw, err := base64url.Decode(segment)
	if err != nil {
		return nil, nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil
	}
	return out, nil
}

// DecodeSegmentInto is the strict variant of DecodeSegment used where an
// unparseable segment is an error rather than a soft nil, such as typed
// claim extraction.
func DecodeSegmentInto(segment string, dest any) error {
	if len(segment) == 0 {
		return errors.New("empty segment")
	}
	if len(segment) > maxSegmentLength {
		return fmt.Errorf("segment too large: maximum %d characters allowed", maxSegmentLength)
	}
	if len(segment)%4 == 1 {
		return ErrIllegalPadding
	}

	raw, err := base64url.Decode(segment)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// SignedString builds a complete token: encoded header and claims, signing
// input, signature from the method, assembled wire form.
func SignedString(header map[string]any, claims any, method alg.Method, key any) (string, error) {
	headerPart, err := EncodeHeader(header, method.Alg())
	if err != nil {
		return "", err
	}

	payloadPart, err := EncodePayload(claims)
	if err != nil {
		return "", err
	}

	signingInput := SigningInput(headerPart, payloadPart)

	signature, err := method.Sign(signingInput, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return Assemble(signingInput, base64url.Encode(signature)), nil
}
