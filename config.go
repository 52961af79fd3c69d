package jwt

import (
	"fmt"
	"time"

	"github.com/signkit/jwt/internal/alg"
	"github.com/signkit/jwt/internal/keys"
	"github.com/signkit/jwt/internal/security"
)

// Config configures a Processor.
type Config struct {
	// SecretKey is the signing key material: an HMAC passphrase of at
	// least 32 bytes, or PEM-armored PKCS8 private key text for the
	// asymmetric algorithms.
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// VerifyKey optionally carries PEM-armored SPKI public key text used
	// for validation under an asymmetric algorithm. When empty, the
	// public key is derived from SecretKey.
	VerifyKey string `yaml:"verify_key" json:"verify_key"`

	// AccessTokenTTL defines the lifetime of access tokens
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" json:"access_token_ttl"`

	// RefreshTokenTTL defines the lifetime of refresh tokens (must be greater than AccessTokenTTL)
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" json:"refresh_token_ttl"`

	// Issuer identifies the principal that issued the token
	Issuer string `yaml:"issuer" json:"issuer"`

	// Algorithm specifies the signature algorithm used for tokens
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`

	// EnableRateLimit enables rate limiting for token creation
	EnableRateLimit bool `yaml:"enable_rate_limit" json:"enable_rate_limit"`

	// RateLimitRate specifies the maximum number of tokens per window
	RateLimitRate int `yaml:"rate_limit_rate" json:"rate_limit_rate"`

	// RateLimitWindow defines the time window for rate limiting
	RateLimitWindow time.Duration `yaml:"rate_limit_window" json:"rate_limit_window"`
}

// DefaultConfig returns a secure default configuration for production use
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "jwt-service",
		Algorithm:       HS256,
		EnableRateLimit: false,
		RateLimitRate:   100,
		RateLimitWindow: time.Minute,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	algorithm := c.Algorithm
	if algorithm == "" {
		algorithm = HS256
	}
	method, ok := alg.Get(string(algorithm))
	if !ok {
		return fmt.Errorf("%w: %q", ErrAlgorithmNotFound, algorithm)
	}

	switch method.Family() {
	case alg.FamilyHMAC:
		if keys.IsPEM(c.SecretKey) {
			return fmt.Errorf("%w: %s requires a passphrase, not PEM key text", ErrInvalidConfig, algorithm)
		}
		if len(c.SecretKey) < 32 {
			return fmt.Errorf("%w: minimum 32 bytes required, got %d", ErrInvalidSecretKey, len(c.SecretKey))
		}
		if security.IsWeakKey([]byte(c.SecretKey)) {
			return fmt.Errorf("%w: key must have sufficient entropy and complexity", ErrInvalidSecretKey)
		}
	default:
		if !keys.IsPEM(c.SecretKey) {
			return fmt.Errorf("%w: %s requires PEM-encoded private key text", ErrInvalidConfig, algorithm)
		}
		if c.VerifyKey != "" && !keys.IsPEM(c.VerifyKey) {
			return fmt.Errorf("%w: verify key must be PEM-encoded public key text", ErrInvalidConfig)
		}
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive", ErrInvalidConfig)
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("%w: access token TTL must be less than refresh token TTL", ErrInvalidConfig)
	}

	return nil
}
