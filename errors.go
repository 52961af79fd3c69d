package jwt

import (
	"errors"
	"fmt"

	"github.com/signkit/jwt/internal/alg"
)

// Predefined errors for sign, verify and decode operations
var (
	// Argument errors
	ErrInvalidPayload = errors.New("invalid payload: must be a non-nil claim map")
	ErrInvalidSecret  = errors.New("invalid secret: must be a non-empty string")

	// Algorithm errors
	ErrAlgorithmNotFound = errors.New("algorithm not found: must be one of ES256/384/512, HS256/384/512, RS256/384/512")

	// Token structure errors
	ErrEmptyToken     = errors.New("empty token: token string cannot be empty")
	ErrMalformedToken = errors.New("malformed token: expected 3 dot-separated base64url segments")

	// Verification outcomes, surfaced as errors only in strict mode
	ErrParse            = errors.New("token payload cannot be parsed")
	ErrTokenNotYetValid = errors.New("token is not yet valid (nbf claim in the future)")
	ErrTokenExpired     = errors.New("token has expired (exp claim in the past)")

	// ErrInvalidKey indicates key material unusable with the selected
	// algorithm: wrong key type or curve, raw bytes for an asymmetric
	// family, or a PEM block that is not PKCS8/SPKI.
	ErrInvalidKey = alg.ErrInvalidKey
)

// Predefined errors for the Processor layer
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidSecretKey  = errors.New("invalid secret key: must be at least 32 bytes with sufficient entropy")
	ErrInvalidClaims     = errors.New("invalid claims")
	ErrInvalidToken      = errors.New("invalid token: signature verification failed or malformed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many requests")
	ErrProcessorClosed   = errors.New("processor is closed: cannot perform operations")
)

// ValidationError describes a claim that failed validation.
type ValidationError struct {
	Field   string // The claim that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for claim '%s': %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed for claim '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
