package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		err   error
	}{
		{"12.34", 1234, nil},
		{"-150", -15000, nil},
		{"12.345", 1235, nil}, // half-up on the third decimal
		{"12.344", 1234, nil},
		{"0.01", 1, nil},
		{"-0.01", -1, nil},
		{"1000000", 100_000_000, nil},
		{"-1000000", -100_000_000, nil},
		{"0", 0, ErrZeroAmount},
		{"0.004", 0, ErrZeroAmount},
		{"1000000.01", 0, ErrAmountOutOfRange},
		{"-1000000.01", 0, ErrAmountOutOfRange},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tc.in, err)
		}
		m, err := ParseAmount(d)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("ParseAmount(%q) expected %v, got %v", tc.in, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tc.in, err)
		}
		if m.Cents != tc.cents {
			t.Fatalf("ParseAmount(%q) = %d cents, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{-15000, -1, 1, 1234, 100_000_000} {
		b, err := json.Marshal(Money{Cents: cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var m Money
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if m.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, b, m.Cents)
		}
	}
}

func TestMoneyMarshalFormat(t *testing.T) {
	b, err := json.Marshal(Money{Cents: -15000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "-150" {
		t.Fatalf("expected -150, got %s", b)
	}
	b, _ = json.Marshal(Money{Cents: 1234})
	if string(b) != "12.34" {
		t.Fatalf("expected 12.34, got %s", b)
	}
}

func TestMoneyUnmarshalRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}
