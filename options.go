package jwt

// Sign and Verify accept their options in two shapes: a bare Algorithm as
// shorthand, or a full options struct. Both shapes satisfy the option
// interfaces below and are normalized onto the defaults at the call entry,
// with zero-valued fields leaving the defaults untouched.

// SignOption is either an Algorithm or a SignOptions value.
type SignOption interface {
	applySign(*SignOptions)
}

// VerifyOption is either an Algorithm or a VerifyOptions value.
type VerifyOption interface {
	applyVerify(*VerifyOptions)
}

// SignOptions controls token creation. The zero value of a field falls back
// to the default: HS256 and a header of {"typ": "JWT"}.
type SignOptions struct {
	// Algorithm selects the signature algorithm.
	Algorithm Algorithm

	// Header supplies additional header fields. It replaces the default
	// header entirely; the "alg" entry is always overwritten with the
	// active algorithm.
	Header Header
}

func (o SignOptions) applySign(dst *SignOptions) {
	if o.Algorithm != "" {
		dst.Algorithm = o.Algorithm
	}
	if o.Header != nil {
		dst.Header = o.Header
	}
}

// VerifyOptions controls token verification. The default algorithm is
// HS256 for Verify just as for Sign.
type VerifyOptions struct {
	// Algorithm selects the signature algorithm. The caller's choice is
	// authoritative; the token's own "alg" header is never consulted.
	Algorithm Algorithm

	// Strict reports temporal and parse failures as errors instead of a
	// plain false result. Structural failures (malformed token, unknown
	// algorithm, unusable key) are errors regardless of Strict.
	Strict bool
}

func (o VerifyOptions) applyVerify(dst *VerifyOptions) {
	if o.Algorithm != "" {
		dst.Algorithm = o.Algorithm
	}
	dst.Strict = o.Strict
}

func (a Algorithm) applySign(dst *SignOptions) {
	dst.Algorithm = a
}

func (a Algorithm) applyVerify(dst *VerifyOptions) {
	dst.Algorithm = a
}

func newSignOptions(opts []SignOption) SignOptions {
	out := SignOptions{
		Algorithm: HS256,
		Header:    Header{"typ": "JWT"},
	}
	for _, o := range opts {
		o.applySign(&out)
	}
	return out
}

func newVerifyOptions(opts []VerifyOption) VerifyOptions {
	out := VerifyOptions{
		Algorithm: HS256,
		Strict:    false,
	}
	for _, o := range opts {
		o.applyVerify(&out)
	}
	return out
}
