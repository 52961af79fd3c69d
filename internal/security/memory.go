// Package security provides memory hygiene helpers for key material:
// zeroing, constant-time comparison, and weak-key detection.
package security

import (
	"strings"
	"sync"
)

// SecureBytes holds sensitive bytes that are zeroed when no longer needed.
type SecureBytes struct {
	data []byte
	mu   sync.Mutex
}

// NewSecureBytes copies data into a SecureBytes. The caller's slice is not
// retained.
func NewSecureBytes(data []byte) *SecureBytes {
	secure := &SecureBytes{data: make([]byte, len(data))}
	copy(secure.data, data)
	return secure
}

// Bytes returns the underlying byte slice. The slice is invalid after
// Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Destroy zeroes the memory. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		ZeroBytes(s.data)
		s.data = nil
	}
}

// ZeroBytes overwrites a byte slice with zeros.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// SecureCompare performs a constant-time comparison of two byte slices.
// Slices of different lengths compare unequal but still walk the longer
// slice to keep timing independent of the mismatch position.
func SecureCompare(a, b []byte) bool {
	lenA, lenB := len(a), len(b)

	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}

	var result byte
	for i := 0; i < maxLen; i++ {
		var av, bv byte
		if i < lenA {
			av = a[i]
		}
		if i < lenB {
			bv = b[i]
		}
		result |= av ^ bv
	}

	return result == 0 && lenA == lenB
}

var weakPatterns = [...]string{
	"password", "12345678", "qwerty", "letmein", "default",
	"example", "sample", "secret", "admin", "test",
}

// IsWeakKey reports whether key has obviously insufficient entropy:
// single-byte keys, short repeated patterns, low byte diversity, or
// well-known weak passphrases.
func IsWeakKey(key []byte) bool {
	if len(key) == 0 {
		return true
	}

	repeated := true
	for _, b := range key {
		if b != key[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return true
	}

	unique := make(map[byte]struct{}, len(key))
	for _, b := range key {
		unique[b] = struct{}{}
	}
	if float64(len(unique))/float64(len(key)) < 0.3 {
		return true
	}

	lower := strings.ToLower(string(key))
	for _, pattern := range weakPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	if len(key) >= 6 && hasShortCycle(key) {
		return true
	}

	return false
}

// hasShortCycle detects keys built from a repeating 2-4 byte pattern.
func hasShortCycle(key []byte) bool {
	for patternLen := 2; patternLen <= 4; patternLen++ {
		if len(key) < patternLen*3 {
			continue
		}
		cyclic := true
		for i := patternLen; i < len(key); i++ {
			if key[i] != key[i-patternLen] {
				cyclic = false
				break
			}
		}
		if cyclic {
			return true
		}
	}
	return false
}
