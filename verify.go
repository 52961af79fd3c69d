package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/signkit/jwt/internal/alg"
	"github.com/signkit/jwt/internal/base64url"
	"github.com/signkit/jwt/internal/keys"
	"github.com/signkit/jwt/internal/token"
)

// Verify decides whether tokenString is valid under secret and the chosen
// algorithm: the payload must parse, its "nbf"/"exp" claims must pass
// against the current time, and the signature must verify. The primitive's
// signature check is the sole source of a true result.
//
// The token's own "alg" header is deliberately never consulted; the
// caller's algorithm choice is authoritative. Options default to HS256 with
// Strict off; a bare Algorithm is accepted as shorthand.
//
// With Strict off, an unparseable payload and temporal claim violations
// yield (false, nil). With Strict on they yield ErrParse,
// ErrTokenNotYetValid or ErrTokenExpired. Structural failures (empty or
// malformed token, unknown algorithm, unusable key material) are errors
// regardless of Strict.
func Verify(tokenString, secret string, options ...VerifyOption) (bool, error) {
	if secret == "" {
		return false, ErrInvalidSecret
	}

	opts := newVerifyOptions(options)

	method, ok := alg.Get(string(opts.Algorithm))
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAlgorithmNotFound, opts.Algorithm)
	}

	headerPart, payloadPart, signaturePart, err := token.Split(tokenString)
	if err != nil {
		return false, splitError(err)
	}

	payload, err := token.DecodeSegment(payloadPart)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if payload == nil {
		if opts.Strict {
			return false, ErrParse
		}
		return false, nil
	}

	now := time.Now().Unix()
	if nbf, present := numericClaim(payload, ClaimNotBefore); present && nbf > now {
		if opts.Strict {
			return false, ErrTokenNotYetValid
		}
		return false, nil
	}
	if exp, present := numericClaim(payload, ClaimExpiresAt); present && exp <= now {
		if opts.Strict {
			return false, ErrTokenExpired
		}
		return false, nil
	}

	key, err := keys.VerifyingKey(secret, method)
	if err != nil {
		return false, err
	}

	signature, err := base64url.Decode(signaturePart)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return method.Verify(token.SigningInput(headerPart, payloadPart), signature, key)
}

// Decode returns the header and payload of a token without any signature
// or temporal validation. An unparseable segment surfaces as a nil field
// rather than an error. The result must never be used for trust decisions;
// only Verify establishes authenticity.
func Decode(tokenString string) (*DecodedToken, error) {
	headerPart, payloadPart, _, err := token.Split(tokenString)
	if err != nil {
		return nil, splitError(err)
	}

	header, err := token.DecodeSegment(headerPart)
	if err != nil {
		header = nil
	}
	payload, err := token.DecodeSegment(payloadPart)
	if err != nil {
		payload = nil
	}

	return &DecodedToken{Header: header, Payload: payload}, nil
}

func splitError(err error) error {
	switch {
	case errors.Is(err, token.ErrEmpty):
		return ErrEmptyToken
	case errors.Is(err, token.ErrInvalidFormat):
		return ErrMalformedToken
	default:
		return err
	}
}
