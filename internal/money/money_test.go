package money

import (
	"encoding/json"
	"testing"
)

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, the classic binary float failure
	a := MustParse("0.1")
	b := MustParse("0.2")
	if got := a.Add(b); !got.Equal(MustParse("0.3")) {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", got)
	}

	// repeated subtraction returns exactly to zero
	total := MustParse("100.00")
	share := MustParse("33.33")
	rest := total.Sub(share).Sub(share).Sub(share)
	if !rest.Equal(MustParse("0.01")) {
		t.Errorf("100 - 3*33.33 = %s, want 0.01", rest)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},
		{"2.344", "2.34"},
		{"2.005", "2.01"},
		{"33.333333", "33.33"},
		{"33.335", "33.34"},
	}
	for _, tt := range tests {
		got := MustParse(tt.in).Display()
		if !got.Equal(MustParse(tt.want)) {
			t.Errorf("Display(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDivisionKeepsPrecision(t *testing.T) {
	third := MustParse("100").DivInt(3)
	reconstructed := third.MulFloat(3)
	// 20-digit division precision keeps the round trip within a hair of 100
	diff := reconstructed.Sub(MustParse("100")).Abs()
	if diff.GreaterThan(MustParse("0.0000000000000001")) {
		t.Errorf("100/3*3 drifted by %s", diff)
	}
}

func TestWithinTolerance(t *testing.T) {
	if !MustParse("99.999").WithinTolerance(MustParse("100"), Tolerance()) {
		t.Error("99.999 should be within 0.01 of 100")
	}
	if MustParse("99.98").WithinTolerance(MustParse("100"), Tolerance()) {
		t.Error("99.98 should not be within 0.01 of 100")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := MustParse("33.34")
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "33.34" {
		t.Errorf("marshal = %s, want unquoted 33.34", data)
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(m) {
		t.Errorf("round trip = %s, want %s", back, m)
	}

	// quoted input is also accepted
	if err := json.Unmarshal([]byte(`"12.50"`), &back); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if !back.Equal(MustParse("12.5")) {
		t.Errorf("quoted round trip = %s, want 12.5", back)
	}
}
