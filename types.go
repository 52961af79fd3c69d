package jwt

// Algorithm identifies a supported signature algorithm. The menu is closed:
// three HMAC, three RSASSA-PKCS1-v1.5 and three ECDSA variants, each paired
// with a SHA-2 digest.
type Algorithm string

const (
	// ES256 uses ECDSA with curve P-256 and SHA-256.
	ES256 Algorithm = "ES256"

	// ES384 uses ECDSA with curve P-384 and SHA-384.
	ES384 Algorithm = "ES384"

	// ES512 uses ECDSA with curve P-521 and SHA-512.
	ES512 Algorithm = "ES512"

	// HS256 uses HMAC with SHA-256 (the default for Sign and Verify).
	HS256 Algorithm = "HS256"

	// HS384 uses HMAC with SHA-384.
	HS384 Algorithm = "HS384"

	// HS512 uses HMAC with SHA-512.
	HS512 Algorithm = "HS512"

	// RS256 uses RSASSA-PKCS1-v1.5 with SHA-256.
	RS256 Algorithm = "RS256"

	// RS384 uses RSASSA-PKCS1-v1.5 with SHA-384.
	RS384 Algorithm = "RS384"

	// RS512 uses RSASSA-PKCS1-v1.5 with SHA-512.
	RS512 Algorithm = "RS512"
)

func (a Algorithm) String() string { return string(a) }

// Header is the token header: arbitrary JSON fields plus the "alg" entry,
// which is always set from the active algorithm at signing time.
type Header = map[string]any

// Claims is the token payload: arbitrary JSON fields. The recognized
// registered claims are "iss", "sub", "aud", "jti" (strings) and "nbf",
// "exp", "iat" (integer Unix seconds).
type Claims = map[string]any

// Registered claim names.
const (
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimTokenID   = "jti"
	ClaimNotBefore = "nbf"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
)

// DecodedToken holds the unverified header and payload of a token as
// returned by Decode. A nil field means the segment could not be parsed.
type DecodedToken struct {
	Header  Header
	Payload Claims
}
