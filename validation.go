package jwt

import (
	"fmt"
)

const (
	maxClaimCount   = 64
	maxStringLength = 1024
	maxArraySize    = 100
	maxNestingDepth = 3
)

// validateClaims bounds-checks a claim map before it is signed: claim
// count, key and string-value lengths, array sizes, nesting depth, and
// control characters. Registered temporal claims must be numeric.
func validateClaims(claims Claims) error {
	if claims == nil {
		return ErrInvalidClaims
	}
	if len(claims) > maxClaimCount {
		return &ValidationError{
			Field:   "claims",
			Message: fmt.Sprintf("too many claims: maximum %d allowed", maxClaimCount),
		}
	}

	for key, value := range claims {
		if err := validateString(key, key); err != nil {
			return err
		}
		if err := validateValue(key, value, 0); err != nil {
			return err
		}
	}

	for _, name := range [...]string{ClaimIssuer, ClaimSubject, ClaimTokenID} {
		if v, present := claims[name]; present {
			if _, ok := v.(string); !ok {
				return &ValidationError{Field: name, Message: "must be a string"}
			}
		}
	}
	for _, name := range [...]string{ClaimExpiresAt, ClaimNotBefore, ClaimIssuedAt} {
		if _, present := claims[name]; present {
			if _, ok := numericClaim(claims, name); !ok {
				return &ValidationError{Field: name, Message: "must be integer unix seconds"}
			}
		}
	}

	return nil
}

func validateValue(field string, value any, depth int) error {
	if depth > maxNestingDepth {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("nested too deeply: maximum depth %d", maxNestingDepth),
		}
	}

	switch v := value.(type) {
	case string:
		return validateString(field, v)
	case []string:
		if len(v) > maxArraySize {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("too many items: maximum %d allowed", maxArraySize),
			}
		}
		for _, item := range v {
			if err := validateString(field, item); err != nil {
				return err
			}
		}
	case []any:
		if len(v) > maxArraySize {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("too many items: maximum %d allowed", maxArraySize),
			}
		}
		for _, item := range v {
			if err := validateValue(field, item, depth+1); err != nil {
				return err
			}
		}
	case map[string]any:
		for key, item := range v {
			if err := validateString(field, key); err != nil {
				return err
			}
			if err := validateValue(field+"."+key, item, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateString(field, value string) error {
	if len(value) > maxStringLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("too long: maximum %d characters", maxStringLength),
		}
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < 32 && c != '\t' && c != '\n' && c != '\r' {
			return &ValidationError{
				Field:   field,
				Message: "contains invalid control character",
			}
		}
	}

	return nil
}
