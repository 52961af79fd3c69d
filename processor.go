package jwt

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signkit/jwt/internal/alg"
	"github.com/signkit/jwt/internal/base64url"
	"github.com/signkit/jwt/internal/keys"
	"github.com/signkit/jwt/internal/security"
	"github.com/signkit/jwt/internal/token"
)

// Processor is a configured token issuer and validator. It owns the
// algorithm, key material, token lifetimes and issuer name, and stamps the
// registered claims ("iss", "iat", "exp", "jti") on every token it creates.
type Processor struct {
	method          alg.Method
	signKey         any
	verifyKey       any
	hmacKey         *security.SecureBytes
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	rateLimiter     *RateLimiter

	mu     sync.RWMutex
	closed bool
}

// New creates a Processor from secretKey and optional configuration. The
// secret must be an HMAC passphrase of at least 32 bytes, or PEM private
// key text when the configuration selects an asymmetric algorithm.
func New(secretKey string, config ...Config) (*Processor, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultConfig()
	}

	cfg.SecretKey = secretKey

	if cfg.Algorithm == "" {
		cfg.Algorithm = HS256
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "jwt-service"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = DefaultConfig().AccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = DefaultConfig().RefreshTokenTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	method, ok := alg.Get(string(cfg.Algorithm))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAlgorithmNotFound, cfg.Algorithm)
	}

	p := &Processor{
		method:          method,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		issuer:          cfg.Issuer,
	}

	if method.Family() == alg.FamilyHMAC {
		p.hmacKey = security.NewSecureBytes([]byte(cfg.SecretKey))
		p.signKey = p.hmacKey.Bytes()
		p.verifyKey = p.hmacKey.Bytes()
	} else {
		signKey, err := keys.SigningKey(cfg.SecretKey, method)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve signing key: %w", err)
		}
		p.signKey = signKey

		if cfg.VerifyKey != "" {
			verifyKey, err := keys.VerifyingKey(cfg.VerifyKey, method)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve verify key: %w", err)
			}
			p.verifyKey = verifyKey
		} else {
			p.verifyKey = keys.Public(signKey)
		}
	}

	if cfg.EnableRateLimit {
		p.rateLimiter = NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitWindow)
	}

	runtime.SetFinalizer(p, (*Processor).finalize)
	return p, nil
}

// CreateToken creates an access token with the provided claims. Missing
// registered claims are stamped from the configuration: "iss" from the
// issuer, "exp" from the access TTL, "jti" as a fresh UUID. "iat" is always
// the current time.
func (p *Processor) CreateToken(claims Claims) (string, error) {
	return p.CreateTokenWithContext(context.Background(), claims)
}

// CreateTokenWithContext creates an access token with context support.
func (p *Processor) CreateTokenWithContext(ctx context.Context, claims Claims) (string, error) {
	return p.createToken(ctx, claims, p.accessTokenTTL)
}

// CreateRefreshToken creates a token with the longer refresh TTL.
func (p *Processor) CreateRefreshToken(claims Claims) (string, error) {
	return p.createToken(context.Background(), claims, p.refreshTokenTTL)
}

func (p *Processor) createToken(ctx context.Context, claims Claims, ttl time.Duration) (string, error) {
	if err := validateClaims(claims); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", ErrProcessorClosed
	}

	if p.rateLimiter != nil && !p.rateLimiter.Allow(rateLimitKey(claims)) {
		return "", ErrRateLimitExceeded
	}

	now := time.Now()
	stamped := make(Claims, len(claims)+4)
	for k, v := range claims {
		stamped[k] = v
	}

	stamped[ClaimIssuedAt] = NewNumericDate(now)
	if _, present := stamped[ClaimExpiresAt]; !present {
		stamped[ClaimExpiresAt] = NewNumericDate(now.Add(ttl))
	}
	if _, present := stamped[ClaimIssuer]; !present {
		stamped[ClaimIssuer] = p.issuer
	}
	if _, present := stamped[ClaimTokenID]; !present {
		stamped[ClaimTokenID] = uuid.NewString()
	}

	header := Header{"typ": "JWT"}
	tokenString, err := token.SignedString(header, stamped, p.method, p.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a token and returns its claims. The boolean
// reports overall validity: signature, temporal claims and issuer must all
// pass. Unlike the package-level Verify, the Processor owns a configured
// algorithm and rejects tokens whose header declares a different one.
func (p *Processor) ValidateToken(tokenString string) (Claims, bool, error) {
	return p.ValidateTokenWithContext(context.Background(), tokenString)
}

// ValidateTokenWithContext validates a token with context support.
func (p *Processor) ValidateTokenWithContext(ctx context.Context, tokenString string) (Claims, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, false, ErrProcessorClosed
	}

	claims, valid, err := p.validateTokenInternal(tokenString)
	if err != nil {
		// Generic error to prevent information leakage about which
		// check failed.
		return nil, false, ErrInvalidToken
	}
	return claims, valid, nil
}

func (p *Processor) validateTokenInternal(tokenString string) (Claims, bool, error) {
	headerPart, payloadPart, signaturePart, err := token.Split(tokenString)
	if err != nil {
		return nil, false, err
	}

	var header Header
	if err := token.DecodeSegmentInto(headerPart, &header); err != nil {
		return nil, false, fmt.Errorf("failed to decode header: %w", err)
	}
	if algName, ok := header["alg"].(string); !ok || algName != p.method.Alg() {
		return nil, false, fmt.Errorf("algorithm mismatch: expected %s", p.method.Alg())
	}

	var claims Claims
	if err := token.DecodeSegmentInto(payloadPart, &claims); err != nil {
		return nil, false, fmt.Errorf("failed to decode claims: %w", err)
	}

	signature, err := base64url.Decode(signaturePart)
	if err != nil {
		return nil, false, err
	}

	ok, err := p.method.Verify(token.SigningInput(headerPart, payloadPart), signature, p.verifyKey)
	if err != nil {
		return nil, false, err
	}

	valid := ok
	now := time.Now().Unix()
	if exp, present := numericClaim(claims, ClaimExpiresAt); present && exp <= now {
		valid = false
	}
	if nbf, present := numericClaim(claims, ClaimNotBefore); present && nbf > now {
		valid = false
	}
	if iss, _ := claims[ClaimIssuer].(string); iss != p.issuer {
		valid = false
	}

	return claims, valid, nil
}

// RefreshToken validates an existing refresh token and creates a new access
// token carrying the same claims with fresh timestamps and a new "jti".
func (p *Processor) RefreshToken(refreshTokenString string) (string, error) {
	claims, valid, err := p.ValidateToken(refreshTokenString)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", err)
	}
	if !valid {
		return "", fmt.Errorf("refresh token is not valid")
	}

	delete(claims, ClaimIssuedAt)
	delete(claims, ClaimExpiresAt)
	delete(claims, ClaimTokenID)

	return p.CreateToken(claims)
}

// Close shuts down the processor and securely clears HMAC key material.
func (p *Processor) Close() error {
	return p.CloseWithContext(context.Background())
}

// CloseWithContext shuts down the processor with context support.
func (p *Processor) CloseWithContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrProcessorClosed
	}

	if p.hmacKey != nil {
		p.hmacKey.Destroy()
		p.hmacKey = nil
	}
	p.signKey = nil
	p.verifyKey = nil

	if p.rateLimiter != nil {
		p.rateLimiter.Close()
		p.rateLimiter = nil
	}

	p.closed = true
	runtime.SetFinalizer(p, nil)
	return nil
}

// IsClosed returns true if the processor has been closed
func (p *Processor) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Processor) finalize() {
	if !p.IsClosed() {
		p.Close()
	}
}

// rateLimitKey buckets token creation by subject, falling back to issuer
// wide limiting for subject-less claims.
func rateLimitKey(claims Claims) string {
	if sub, ok := claims[ClaimSubject].(string); ok && sub != "" {
		return "create:" + sub
	}
	return "create:*"
}
