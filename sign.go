package jwt

import (
	"fmt"
	"time"

	"github.com/signkit/jwt/internal/alg"
	"github.com/signkit/jwt/internal/keys"
	"github.com/signkit/jwt/internal/token"
)

// Sign creates a complete signed token carrying payload. The secret is
// either a passphrase (used directly as HMAC key bytes) or PEM-armored
// PKCS8 private key text for the asymmetric algorithms. Options default to
// HS256 with a {"typ": "JWT"} header; a bare Algorithm is accepted as
// shorthand:
//
//	tok, err := jwt.Sign(claims, secret)            // HS256
//	tok, err := jwt.Sign(claims, pemKey, jwt.ES256) // ECDSA P-256
//
// The "iat" claim is always overwritten with the current Unix time; callers
// cannot suppress this. The "alg" header field is always set from the
// active algorithm, overriding any caller-supplied value.
func Sign(payload Claims, secret string, options ...SignOption) (string, error) {
	if payload == nil {
		return "", ErrInvalidPayload
	}
	if secret == "" {
		return "", ErrInvalidSecret
	}

	opts := newSignOptions(options)

	method, ok := alg.Get(string(opts.Algorithm))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAlgorithmNotFound, opts.Algorithm)
	}

	key, err := keys.SigningKey(secret, method)
	if err != nil {
		return "", err
	}

	claims := make(Claims, len(payload)+1)
	for k, v := range payload {
		claims[k] = v
	}
	claims[ClaimIssuedAt] = time.Now().Unix()

	return token.SignedString(opts.Header, claims, method, key)
}
