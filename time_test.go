package jwt

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNumericDateMarshal(t *testing.T) {
	now := time.Unix(1700000000, 0)

	raw, err := json.Marshal(NewNumericDate(now))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(raw) != "1700000000" {
		t.Errorf("Marshal = %s, want integer seconds", raw)
	}

	raw, err = json.Marshal(NumericDate{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("Zero value marshals to %s, want null", raw)
	}
}

func TestNumericDateUnmarshal(t *testing.T) {
	var date NumericDate
	if err := json.Unmarshal([]byte("1700000000"), &date); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if date.Unix() != 1700000000 {
		t.Errorf("Unix() = %d, want 1700000000", date.Unix())
	}

	if err := json.Unmarshal([]byte("null"), &date); err != nil {
		t.Fatalf("Unmarshal null failed: %v", err)
	}
	if !date.IsZero() {
		t.Error("null should unmarshal to the zero value")
	}

	for _, input := range []string{`"tomorrow"`, "-5", "999999999999"} {
		if err := json.Unmarshal([]byte(input), &date); err == nil {
			t.Errorf("Unmarshal(%s) should fail", input)
		}
	}
}

func TestNumericClaim(t *testing.T) {
	now := time.Unix(1700000000, 0)
	claims := Claims{
		"float":   float64(100),
		"int64":   int64(200),
		"int":     300,
		"number":  json.Number("400"),
		"date":    NewNumericDate(now),
		"zero":    NumericDate{},
		"string":  "500",
		"boolean": true,
	}

	tests := []struct {
		name    string
		want    int64
		present bool
	}{
		{"float", 100, true},
		{"int64", 200, true},
		{"int", 300, true},
		{"number", 400, true},
		{"date", 1700000000, true},
		{"zero", 0, false},
		{"string", 0, false},
		{"boolean", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := numericClaim(claims, tt.name)
			if got != tt.want || present != tt.present {
				t.Errorf("numericClaim(%q) = %d, %v, want %d, %v", tt.name, got, present, tt.want, tt.present)
			}
		})
	}
}
