// Package alg is the registry of supported signature algorithms. Each
// identifier maps to a method binding a signature family, a SHA-2 digest
// and, for ECDSA, a named curve. The actual signature math is delegated to
// the standard crypto packages.
package alg

import (
	"crypto"
	"crypto/elliptic"
	"errors"

	_ "crypto/sha256" // register SHA-256/384
	_ "crypto/sha512" // register SHA-512
)

// ErrInvalidKey indicates key material that cannot be used with the
// selected algorithm (wrong type, wrong curve, raw bytes for an asymmetric
// family).
var ErrInvalidKey = errors.New("invalid key for algorithm")

// Family identifies a signature family.
type Family int

const (
	FamilyHMAC Family = iota
	FamilyRSA
	FamilyECDSA
)

// Method binds an algorithm identifier to its primitive parameters and
// exposes the sign/verify byte operations over the signing input.
type Method interface {
	// Alg returns the algorithm identifier for the "alg" header field.
	Alg() string

	// Family returns the signature family, which dictates the accepted
	// key types.
	Family() Family

	// Hash returns the digest used by this method.
	Hash() crypto.Hash

	// Sign computes the raw signature bytes over signingInput. The key
	// type depends on the family: []byte for HMAC, *rsa.PrivateKey for
	// RSA, *ecdsa.PrivateKey for ECDSA.
	Sign(signingInput string, key any) ([]byte, error)

	// Verify reports whether signature is valid over signingInput. A
	// signature mismatch is a false result, not an error; errors are
	// reserved for unusable key material.
	Verify(signingInput string, signature []byte, key any) (bool, error)
}

var methods = map[string]Method{
	"HS256": &hmacMethod{"HS256", crypto.SHA256},
	"HS384": &hmacMethod{"HS384", crypto.SHA384},
	"HS512": &hmacMethod{"HS512", crypto.SHA512},
	"RS256": &rsaMethod{"RS256", crypto.SHA256},
	"RS384": &rsaMethod{"RS384", crypto.SHA384},
	"RS512": &rsaMethod{"RS512", crypto.SHA512},
	"ES256": &ecdsaMethod{"ES256", crypto.SHA256, 32, elliptic.P256()},
	"ES384": &ecdsaMethod{"ES384", crypto.SHA384, 48, elliptic.P384()},
	"ES512": &ecdsaMethod{"ES512", crypto.SHA512, 66, elliptic.P521()},
}

// Get looks up a method by its identifier.
func Get(name string) (Method, bool) {
	m, ok := methods[name]
	return m, ok
}

func digest(hash crypto.Hash, signingInput string) []byte {
	hasher := hash.New()
	hasher.Write([]byte(signingInput))
	return hasher.Sum(nil)
}
