package alg

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"math/big"
)

// ecdsaMethod produces the JWS signature format: the big-endian R and S
// values, each left-padded to keySize bytes, concatenated.
type ecdsaMethod struct {
	name    string
	hash    crypto.Hash
	keySize int
	curve   elliptic.Curve
}

func (m *ecdsaMethod) Alg() string       { return m.name }
func (m *ecdsaMethod) Family() Family    { return FamilyECDSA }
func (m *ecdsaMethod) Hash() crypto.Hash { return m.hash }

func (m *ecdsaMethod) Sign(signingInput string, key any) ([]byte, error) {
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires *ecdsa.PrivateKey, got %T", ErrInvalidKey, m.name, key)
	}
	if priv.Curve != m.curve {
		return nil, fmt.Errorf("%w: %s requires curve %s, key uses %s",
			ErrInvalidKey, m.name, m.curve.Params().Name, priv.Curve.Params().Name)
	}

	r, s, err := ecdsa.Sign(rand.Reader, priv, digest(m.hash, signingInput))
	if err != nil {
		return nil, fmt.Errorf("ecdsa signing failed: %w", err)
	}

	sig := make([]byte, 2*m.keySize)
	r.FillBytes(sig[:m.keySize])
	s.FillBytes(sig[m.keySize:])
	return sig, nil
}

func (m *ecdsaMethod) Verify(signingInput string, signature []byte, key any) (bool, error) {
	pub, err := m.publicKey(key)
	if err != nil {
		return false, err
	}

	if len(signature) != 2*m.keySize {
		return false, nil
	}

	r := new(big.Int).SetBytes(signature[:m.keySize])
	s := new(big.Int).SetBytes(signature[m.keySize:])

	return ecdsa.Verify(pub, digest(m.hash, signingInput), r, s), nil
}

func (m *ecdsaMethod) publicKey(key any) (*ecdsa.PublicKey, error) {
	var pub *ecdsa.PublicKey
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		pub = k
	case *ecdsa.PrivateKey:
		pub = &k.PublicKey
	default:
		return nil, fmt.Errorf("%w: %s requires *ecdsa.PublicKey, got %T", ErrInvalidKey, m.name, key)
	}

	if pub.Curve != m.curve {
		return nil, fmt.Errorf("%w: %s requires curve %s, key uses %s",
			ErrInvalidKey, m.name, m.curve.Params().Name, pub.Curve.Params().Name)
	}
	return pub, nil
}
