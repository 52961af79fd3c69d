package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signkit/jwt/internal/base64url"
	"github.com/signkit/jwt/internal/token"
)

const testSecret = "test-secret-key-material-32-bytes"

func generateRSAPair(t *testing.T) (privPEM, pubPEM string) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return encodePair(t, priv, &priv.PublicKey)
}

func generateECDSAPair(t *testing.T, curve elliptic.Curve) (privPEM, pubPEM string) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate ECDSA key: %v", err)
	}
	return encodePair(t, priv, &priv.PublicKey)
}

func encodePair(t *testing.T, priv, pub any) (privPEM, pubPEM string) {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("Failed to marshal PKCS8: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("Failed to marshal SPKI: %v", err)
	}
	privPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	pubPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))
	return privPEM, pubPEM
}

func TestSignVerifyRoundTripHMAC(t *testing.T) {
	for _, algorithm := range []Algorithm{HS256, HS384, HS512} {
		t.Run(string(algorithm), func(t *testing.T) {
			tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret, algorithm)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}

			valid, err := Verify(tokenString, testSecret, algorithm)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if !valid {
				t.Error("Freshly signed token should verify")
			}

			valid, err = Verify(tokenString, "some-other-secret-32-byte-string", algorithm)
			if err != nil {
				t.Fatalf("Verify with wrong secret failed: %v", err)
			}
			if valid {
				t.Error("Token must not verify under a different secret")
			}
		})
	}
}

func TestSignVerifyRoundTripRSA(t *testing.T) {
	privPEM, pubPEM := generateRSAPair(t)

	for _, algorithm := range []Algorithm{RS256, RS384, RS512} {
		t.Run(string(algorithm), func(t *testing.T) {
			tokenString, err := Sign(Claims{"sub": "user-1"}, privPEM, algorithm)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}

			valid, err := Verify(tokenString, pubPEM, algorithm)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if !valid {
				t.Error("Freshly signed token should verify")
			}
		})
	}
}

func TestSignVerifyRoundTripECDSA(t *testing.T) {
	tests := []struct {
		algorithm Algorithm
		curve     elliptic.Curve
	}{
		{ES256, elliptic.P256()},
		{ES384, elliptic.P384()},
		{ES512, elliptic.P521()},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			privPEM, pubPEM := generateECDSAPair(t, tt.curve)

			tokenString, err := Sign(Claims{"sub": "user-1"}, privPEM, tt.algorithm)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}

			valid, err := Verify(tokenString, pubPEM, tt.algorithm)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if !valid {
				t.Error("Freshly signed token should verify")
			}
		})
	}
}

func TestSignInjectsIssuedAt(t *testing.T) {
	before := time.Now().Unix()
	tokenString, err := Sign(Claims{"sub": "user-1", ClaimIssuedAt: int64(12345)}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	after := time.Now().Unix()

	decoded, err := Decode(tokenString)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	iat, ok := decoded.Payload[ClaimIssuedAt].(float64)
	if !ok {
		t.Fatalf("iat missing or not numeric: %v", decoded.Payload[ClaimIssuedAt])
	}
	if int64(iat) < before || int64(iat) > after {
		t.Errorf("iat = %d, want within [%d, %d]; caller value must be overwritten", int64(iat), before, after)
	}
}

func TestSignDoesNotMutateInput(t *testing.T) {
	payload := Claims{"sub": "user-1"}
	if _, err := Sign(payload, testSecret); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, ok := payload[ClaimIssuedAt]; ok {
		t.Error("Sign must not write iat into the caller's claims map")
	}
}

func TestSignInvalidInputs(t *testing.T) {
	if _, err := Sign(nil, testSecret); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("nil payload: err = %v, want ErrInvalidPayload", err)
	}
	if _, err := Sign(Claims{}, ""); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("empty secret: err = %v, want ErrInvalidSecret", err)
	}
	if _, err := Sign(Claims{}, testSecret, Algorithm("XX999")); !errors.Is(err, ErrAlgorithmNotFound) {
		t.Errorf("unknown algorithm: err = %v, want ErrAlgorithmNotFound", err)
	}
	if _, err := Sign(Claims{}, testSecret, Algorithm("hs256")); !errors.Is(err, ErrAlgorithmNotFound) {
		t.Errorf("lowercase algorithm: err = %v, want ErrAlgorithmNotFound", err)
	}
}

func TestSignKeyMismatch(t *testing.T) {
	_, pubPEM := generateRSAPair(t)

	// Raw passphrase under an asymmetric algorithm.
	if _, err := Sign(Claims{}, testSecret, RS256); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("raw secret under RS256: err = %v, want ErrInvalidKey", err)
	}
	// PEM text under HMAC.
	if _, err := Sign(Claims{}, pubPEM, HS256); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("PEM under HS256: err = %v, want ErrInvalidKey", err)
	}
}

func TestSignCustomHeader(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret, SignOptions{
		Header: Header{"typ": "JWT", "kid": "key-1", "alg": "none"},
	})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	decoded, err := Decode(tokenString)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Header["kid"] != "key-1" {
		t.Errorf("kid = %v, want key-1", decoded.Header["kid"])
	}
	if decoded.Header["alg"] != "HS256" {
		t.Errorf("alg = %v, want HS256 regardless of the caller value", decoded.Header["alg"])
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1", "role": "user"}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	headerPart, _, signaturePart, err := token.Split(tokenString)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	forged, err := json.Marshal(map[string]any{"sub": "user-1", "role": "admin"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	tampered := headerPart + "." + base64url.Encode(forged) + "." + signaturePart

	valid, err := Verify(tampered, testSecret)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Tampered payload must not verify")
	}
}

func TestVerifyCrossAlgorithm(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret, HS256)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	valid, err := Verify(tokenString, testSecret, HS384)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("HS256 token must not verify under HS384")
	}
}

func TestVerifyIgnoresTokenHeaderAlg(t *testing.T) {
	// Hand-craft a token whose header claims HS512 but whose signature is
	// HS256. The caller's algorithm choice decides, never the header.
	headerPart := base64url.Encode([]byte(`{"alg":"HS512","typ":"JWT"}`))
	payloadPart := base64url.Encode([]byte(`{"sub":"user-1"}`))
	signingInput := headerPart + "." + payloadPart

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(signingInput))
	crafted := signingInput + "." + base64url.Encode(mac.Sum(nil))

	valid, err := Verify(crafted, testSecret, HS256)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !valid {
		t.Error("Caller-selected HS256 must verify despite the lying header")
	}

	valid, err = Verify(crafted, testSecret, HS512)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Caller-selected HS512 must reject the HS256 signature")
	}
}

func TestVerifyStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty token", "", ErrEmptyToken},
		{"one segment", "abc", ErrMalformedToken},
		{"two segments", "a.b", ErrMalformedToken},
		{"four segments", "a.b.c.d", ErrMalformedToken},
		{"oversize token", strings.Repeat("a", 9000), token.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Verify(tt.input, testSecret); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyUnknownAlgorithm(t *testing.T) {
	if _, err := Verify("a.b.c", testSecret, Algorithm("none")); !errors.Is(err, ErrAlgorithmNotFound) {
		t.Errorf("err = %v, want ErrAlgorithmNotFound", err)
	}
}

func TestVerifyEmptySecret(t *testing.T) {
	if _, err := Verify("a.b.c", ""); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("err = %v, want ErrInvalidSecret", err)
	}
}

func TestVerifyUnparseablePayload(t *testing.T) {
	headerPart := base64url.Encode([]byte(`{"alg":"HS256","typ":"JWT"}`))
	crafted := headerPart + ".!!!!.c"

	valid, err := Verify(crafted, testSecret)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Unparseable payload must not verify")
	}

	if _, err := Verify(crafted, testSecret, VerifyOptions{Strict: true}); !errors.Is(err, ErrParse) {
		t.Errorf("Strict: err = %v, want ErrParse", err)
	}
}

func TestVerifyIllegalPaddingIsHard(t *testing.T) {
	// A payload segment with a base64 length remainder of 1 cannot be
	// repadded; this is malformed regardless of Strict.
	headerPart := base64url.Encode([]byte(`{"alg":"HS256","typ":"JWT"}`))
	crafted := headerPart + ".aaaaa.c"

	if _, err := Verify(crafted, testSecret); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("err = %v, want ErrMalformedToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1", ClaimExpiresAt: time.Now().Add(-time.Hour).Unix()}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	valid, err := Verify(tokenString, testSecret)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Expired token must not verify")
	}

	if _, err := Verify(tokenString, testSecret, VerifyOptions{Strict: true}); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Strict: err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyNotYetValid(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1", ClaimNotBefore: time.Now().Add(time.Hour).Unix()}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	valid, err := Verify(tokenString, testSecret)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Not-yet-valid token must not verify")
	}

	if _, err := Verify(tokenString, testSecret, VerifyOptions{Strict: true}); !errors.Is(err, ErrTokenNotYetValid) {
		t.Errorf("Strict: err = %v, want ErrTokenNotYetValid", err)
	}
}

func TestVerifyFutureExpiry(t *testing.T) {
	tokenString, err := Sign(Claims{
		"sub":          "user-1",
		ClaimExpiresAt: time.Now().Add(time.Hour).Unix(),
		ClaimNotBefore: time.Now().Add(-time.Minute).Unix(),
	}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	valid, err := Verify(tokenString, testSecret, VerifyOptions{Strict: true})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !valid {
		t.Error("Token within its validity window should verify")
	}
}

func TestVerifyKeyMismatch(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := Verify(tokenString, testSecret, RS256); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("raw secret under RS256: err = %v, want ErrInvalidKey", err)
	}
}

func TestDecode(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret, SignOptions{
		Header: Header{"typ": "JWT", "kid": "key-1"},
	})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	decoded, err := Decode(tokenString)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Header["alg"] != "HS256" || decoded.Header["kid"] != "key-1" {
		t.Errorf("Header = %v", decoded.Header)
	}
	if decoded.Payload["sub"] != "user-1" {
		t.Errorf("Payload = %v", decoded.Payload)
	}
}

func TestDecodeUnparseableSegments(t *testing.T) {
	decoded, err := Decode("!!!!.!!!!.signature")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Header != nil || decoded.Payload != nil {
		t.Errorf("Unparseable segments should decode to nil fields, got %+v", decoded)
	}

	// Remainder-one segments are soft in Decode, unlike Verify.
	decoded, err = Decode("aaaaa.bbbbb.c")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Header != nil || decoded.Payload != nil {
		t.Errorf("Illegal-length segments should decode to nil fields, got %+v", decoded)
	}
}

func TestDecodeStructuralErrors(t *testing.T) {
	if _, err := Decode(""); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("empty: err = %v, want ErrEmptyToken", err)
	}
	if _, err := Decode("a.b"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("two parts: err = %v, want ErrMalformedToken", err)
	}
}

func TestDecodeNeverAuthenticates(t *testing.T) {
	tokenString, err := Sign(Claims{"sub": "user-1"}, testSecret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	headerPart, payloadPart, _, err := token.Split(tokenString)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	forged := headerPart + "." + payloadPart + "." + base64url.Encode([]byte("garbage"))

	decoded, err := Decode(forged)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Payload["sub"] != "user-1" {
		t.Error("Decode should return the payload without checking the signature")
	}
}
