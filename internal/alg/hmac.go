package alg

import (
	"crypto"
	"crypto/hmac"
	"fmt"

	"github.com/signkit/jwt/internal/security"
)

type hmacMethod struct {
	name string
	hash crypto.Hash
}

func (m *hmacMethod) Alg() string       { return m.name }
func (m *hmacMethod) Family() Family    { return FamilyHMAC }
func (m *hmacMethod) Hash() crypto.Hash { return m.hash }

func (m *hmacMethod) Sign(signingInput string, key any) ([]byte, error) {
	keyBytes, err := m.keyBytes(key)
	if err != nil {
		return nil, err
	}

	hasher := hmac.New(m.hash.New, keyBytes)
	hasher.Write([]byte(signingInput))
	return hasher.Sum(nil), nil
}

func (m *hmacMethod) Verify(signingInput string, signature []byte, key any) (bool, error) {
	keyBytes, err := m.keyBytes(key)
	if err != nil {
		return false, err
	}

	hasher := hmac.New(m.hash.New, keyBytes)
	hasher.Write([]byte(signingInput))
	expected := hasher.Sum(nil)
	defer security.ZeroBytes(expected)

	return security.SecureCompare(signature, expected), nil
}

func (m *hmacMethod) keyBytes(key any) ([]byte, error) {
	switch k := key.(type) {
	case []byte:
		return k, nil
	case string:
		return []byte(k), nil
	default:
		return nil, fmt.Errorf("%w: HMAC key must be []byte or string, got %T", ErrInvalidKey, key)
	}
}
