package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}{Money{Cents: 1250}, Money{Cents: -305}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":12.50,"b":-3.05}` {
		t.Fatalf("unexpected json %s", b)
	}

	inputs := map[string]int64{
		`12.5`:   1250,
		`"7,25"`: 725,
		`100`:    10000,
		`0.015`:  2,
		`-4.00`:  -400,
	}
	for in, want := range inputs {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if m.Cents != want {
			t.Fatalf("unmarshal %s = %d, want %d", in, m.Cents, want)
		}
	}

	for _, in := range []string{`"ten"`, `"-4.00"`, `"0"`, `true`, `1e20`, `-1e20`, `92233720368547758.08`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err == nil {
			t.Fatalf("expected error for %s", in)
		}
	}
}

func TestMoneyValidateRange(t *testing.T) {
	tests := []struct {
		cents   int64
		wantErr error
	}{
		{1, nil},
		{MaxCents, nil},
		{MaxCents + 1, ErrAmountTooLarge},
		{0, ErrInvalidAmount},
		{-1, ErrInvalidAmount},
	}
	for _, tt := range tests {
		if err := (Money{Cents: tt.cents}).Validate(); !errors.Is(err, tt.wantErr) {
			t.Errorf("Validate(%d) = %v, want %v", tt.cents, err, tt.wantErr)
		}
	}
}

func TestMoneyCheckedAdd(t *testing.T) {
	if got, ok := (Money{Cents: 150}).CheckedAdd(Money{Cents: -50}); !ok || got.Cents != 100 {
		t.Fatalf("CheckedAdd = %d, %v", got.Cents, ok)
	}
	if _, ok := (Money{Cents: math.MaxInt64 - 1}).CheckedAdd(Money{Cents: 2}); ok {
		t.Fatal("expected overflow")
	}
	if _, ok := (Money{Cents: math.MinInt64 + 1}).CheckedAdd(Money{Cents: -2}); ok {
		t.Fatal("expected underflow")
	}
}
