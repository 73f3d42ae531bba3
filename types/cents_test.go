package types

import "testing"

func TestCentsArithmetic(t *testing.T) {
	a := Cents(10000)
	b := Cents(4600)

	if got := a.Subtract(b); got != Cents(5400) {
		t.Errorf("Subtract: got %d, want 5400", got)
	}
	if got := a.Add(b); got != Cents(14600) {
		t.Errorf("Add: got %d, want 14600", got)
	}
	if !Cents(0).IsZero() {
		t.Error("IsZero: expected true for 0")
	}
	if !a.IsPositive() {
		t.Error("IsPositive: expected true for 10000")
	}
	if !Cents(-1).IsNegative() {
		t.Error("IsNegative: expected true for -1")
	}
}

func TestCentsFormatMajor(t *testing.T) {
	tests := []struct {
		in   Cents
		want string
	}{
		{4954, "49.54"},
		{100, "1.00"},
		{0, "0.00"},
		{-546, "-5.46"},
		{5, "0.05"},
	}
	for _, tt := range tests {
		if got := tt.in.FormatMajor(); got != tt.want {
			t.Errorf("FormatMajor(%d): got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want Cents
	}{
		{546.0, 546},
		{546.4, 546},
		{546.5, 547},
		{9.9267, 10},
		{-546.5, -547},
		{0.5, 1},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSumCents(t *testing.T) {
	if got := SumCents(Cents(100), Cents(200), Cents(-50)); got != Cents(250) {
		t.Errorf("SumCents: got %d, want 250", got)
	}
	if got := SumCents(); got != Cents(0) {
		t.Errorf("SumCents(empty): got %d, want 0", got)
	}
}
