// Package keys resolves secret text into key material bound to an
// algorithm family. A secret starting with a PEM armor line carries DER
// encoded asymmetric key material (PKCS8 for signing, SPKI for verifying);
// anything else is used verbatim as raw UTF-8 key bytes, which is only
// meaningful for the HMAC family.
package keys

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/signkit/jwt/internal/alg"
)

const pemPrefix = "-----BEGIN"

// IsPEM reports whether secret is PEM-armored key text. The armor prefix is
// the sole signal separating asymmetric key text from a symmetric
// passphrase.
func IsPEM(secret string) bool {
	return strings.HasPrefix(secret, pemPrefix)
}

// DecodePEM strips the BEGIN/END delimiter lines and all whitespace from a
// PEM block and base64-decodes the remainder into DER bytes.
func DecodePEM(text string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(text))

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}
		b.WriteString(line)
	}

	der, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode PEM body: %w", err)
	}
	return der, nil
}

// SigningKey resolves secret into key material usable for signing under the
// given method: a PKCS8 private key for asymmetric families, raw bytes for
// HMAC.
func SigningKey(secret string, method alg.Method) (any, error) {
	if !IsPEM(secret) {
		if method.Family() != alg.FamilyHMAC {
			return nil, fmt.Errorf("%w: %s requires PEM-encoded key material", alg.ErrInvalidKey, method.Alg())
		}
		return []byte(secret), nil
	}

	der, err := DecodePEM(secret)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS8 private key: %w", err)
	}

	switch method.Family() {
	case alg.FamilyRSA:
		if k, ok := key.(*rsa.PrivateKey); ok {
			return k, nil
		}
	case alg.FamilyECDSA:
		if k, ok := key.(*ecdsa.PrivateKey); ok {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w: PKCS8 key type %T cannot be used with %s", alg.ErrInvalidKey, key, method.Alg())
}

// Public returns the verification counterpart of a signing key: the public
// half of an asymmetric private key, or the key itself for HMAC bytes.
func Public(key any) any {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	default:
		return key
	}
}

// VerifyingKey resolves secret into key material usable for verification:
// an SPKI public key for asymmetric families, raw bytes for HMAC.
func VerifyingKey(secret string, method alg.Method) (any, error) {
	if !IsPEM(secret) {
		if method.Family() != alg.FamilyHMAC {
			return nil, fmt.Errorf("%w: %s requires PEM-encoded key material", alg.ErrInvalidKey, method.Alg())
		}
		return []byte(secret), nil
	}

	der, err := DecodePEM(secret)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SPKI public key: %w", err)
	}

	switch method.Family() {
	case alg.FamilyRSA:
		if k, ok := key.(*rsa.PublicKey); ok {
			return k, nil
		}
	case alg.FamilyECDSA:
		if k, ok := key.(*ecdsa.PublicKey); ok {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w: SPKI key type %T cannot be used with %s", alg.ErrInvalidKey, key, method.Alg())
}
