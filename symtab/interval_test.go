package symtab

import "testing"

func TestIntervalContains(t *testing.T) {
	iv := Interval{Start: 0x1000, Length: 0x100}
	tests := []struct {
		addr uint64
		want bool
	}{
		{0x0fff, false},
		{0x1000, true},
		{0x10ff, true},
		{0x1100, false},
	}
	for _, tc := range tests {
		if got := iv.Contains(tc.addr); got != tc.want {
			t.Errorf("Contains(%#x) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestIntervalContainsZeroStart(t *testing.T) {
	iv := Interval{Start: 0, Length: 0x10}
	if !iv.Contains(0) {
		t.Error("Contains(0) = false, want true for Start==0")
	}
	if iv.Contains(0x10) {
		t.Error("Contains(Length) = true, want false (half-open)")
	}
}

func TestIntervalEnd(t *testing.T) {
	iv := Interval{Start: 10, Length: 5}
	if got := iv.End(); got != 15 {
		t.Errorf("End() = %d, want 15", got)
	}
}
