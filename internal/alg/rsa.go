package alg

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

type rsaMethod struct {
	name string
	hash crypto.Hash
}

func (m *rsaMethod) Alg() string       { return m.name }
func (m *rsaMethod) Family() Family    { return FamilyRSA }
func (m *rsaMethod) Hash() crypto.Hash { return m.hash }

func (m *rsaMethod) Sign(signingInput string, key any) ([]byte, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires *rsa.PrivateKey, got %T", ErrInvalidKey, m.name, key)
	}

	return rsa.SignPKCS1v15(rand.Reader, priv, m.hash, digest(m.hash, signingInput))
}

func (m *rsaMethod) Verify(signingInput string, signature []byte, key any) (bool, error) {
	pub, err := m.publicKey(key)
	if err != nil {
		return false, err
	}

	if err := rsa.VerifyPKCS1v15(pub, m.hash, digest(m.hash, signingInput), signature); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *rsaMethod) publicKey(key any) (*rsa.PublicKey, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return k, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	default:
		return nil, fmt.Errorf("%w: %s requires *rsa.PublicKey, got %T", ErrInvalidKey, m.name, key)
	}
}
