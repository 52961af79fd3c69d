package security

import (
	"bytes"
	"testing"
)

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"Equal", []byte("abc123"), []byte("abc123"), true},
		{"Different content", []byte("abc123"), []byte("abc124"), false},
		{"Different length", []byte("abc"), []byte("abcd"), false},
		{"Both empty", []byte{}, []byte{}, true},
		{"One empty", []byte("a"), []byte{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecureCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("SecureCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestZeroBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	ZeroBytes(data)
	if !bytes.Equal(data, make([]byte, 5)) {
		t.Errorf("ZeroBytes left data: %v", data)
	}
}

func TestSecureBytes(t *testing.T) {
	original := []byte("sensitive key material, kept private")
	secure := NewSecureBytes(original)

	if !bytes.Equal(secure.Bytes(), original) {
		t.Error("SecureBytes should hold a copy of the data")
	}

	// Mutating the source must not affect the secure copy.
	original[0] = 'X'
	if secure.Bytes()[0] == 'X' {
		t.Error("SecureBytes retained the caller's slice")
	}

	secure.Destroy()
	if secure.Bytes() != nil {
		t.Error("Destroy should clear the data")
	}
	secure.Destroy() // second call must not panic
}

func TestIsWeakKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		weak bool
	}{
		{"Empty", "", true},
		{"Single repeated byte", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"Known weak passphrase", "passwordpasswordpasswordpassword", true},
		{"Short cycle", "abcabcabcabcabcabcabcabcabcabcab", true},
		{"Low diversity", "ababababab1bababababababababab1b", true},
		{"Strong random key", "Kx9#mP2$vL8@nQ5!wR7&tY3^uI6*oE4%", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeakKey([]byte(tt.key)); got != tt.weak {
				t.Errorf("IsWeakKey(%q) = %v, want %v", tt.key, got, tt.weak)
			}
		})
	}
}
